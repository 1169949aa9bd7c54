// Package domain defines the idea and vote models of the idea board, the
// versioned record schema they are persisted with, and the error taxonomy
// shared by the repository and service layers.
package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Idea is a submitted startup concept with a synthetic quality score.
//
// Fields:
//   - ID: opaque unique id assigned at creation; immutable.
//   - Name / Tagline / Description: trimmed submission text.
//   - Category: market label; empty on records written before categories existed.
//   - Rating: score in [0,100], assigned once at creation.
//   - Feedback: canned assessment phrase, assigned once at creation.
//   - Votes: stored vote counter; only the vote operations mutate it.
//   - Voted: last vote state written alongside Votes.
//   - SubmittedAt: creation timestamp; immutable.
type Idea struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Tagline     string    `json:"tagline"`
	Description string    `json:"description"`
	Category    Category  `json:"category,omitempty"`
	Rating      int       `json:"rating"`
	Feedback    string    `json:"feedback,omitempty"`
	Votes       int       `json:"votes"`
	Voted       bool      `json:"voted"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Field length bounds for new submissions, counted in runes after trimming.
const (
	MinNameLen        = 2
	MinTaglineLen     = 5
	MinDescriptionLen = 20

	MaxNameLen        = 50
	MaxTaglineLen     = 100
	MaxDescriptionLen = 500
)

// NewIdea is the caller-supplied part of a submission. Everything else on
// an Idea is assigned by the service.
type NewIdea struct {
	Name        string   `json:"name"`
	Tagline     string   `json:"tagline"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

// Normalize trims surrounding whitespace from every text field.
func (n NewIdea) Normalize() NewIdea {
	n.Name = strings.TrimSpace(n.Name)
	n.Tagline = strings.TrimSpace(n.Tagline)
	n.Description = strings.TrimSpace(n.Description)
	n.Category = Category(strings.TrimSpace(string(n.Category)))
	return n
}

// Validate checks a normalized submission and returns a *ValidationError
// listing every failing field, or nil.
func (n NewIdea) Validate() error {
	ve := &ValidationError{}
	checkLen(ve, "name", n.Name, MinNameLen, MaxNameLen)
	checkLen(ve, "tagline", n.Tagline, MinTaglineLen, MaxTaglineLen)
	checkLen(ve, "description", n.Description, MinDescriptionLen, MaxDescriptionLen)
	switch {
	case n.Category == "":
		ve.Add("category", "category is required")
	case !n.Category.Valid():
		ve.Add("category", "unknown category "+string(n.Category))
	}
	if ve.Empty() {
		return nil
	}
	return ve
}

func checkLen(ve *ValidationError, field, v string, min, max int) {
	n := utf8.RuneCountInString(v)
	switch {
	case n == 0:
		ve.Add(field, field+" is required")
	case n < min:
		ve.Add(field, field+" is too short")
	case n > max:
		ve.Add(field, field+" is too long")
	}
}

// VoteSet is the set of idea ids the local user has upvoted. Insertion
// order is kept so the persisted list is stable across writes.
type VoteSet struct {
	ids   []string
	index map[string]struct{}
}

// NewVoteSet builds a set from ids, dropping duplicates and empty ids.
func NewVoteSet(ids ...string) VoteSet {
	vs := VoteSet{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		vs.Add(id)
	}
	return vs
}

// Has reports membership.
func (vs VoteSet) Has(id string) bool {
	_, ok := vs.index[id]
	return ok
}

// Add inserts id and reports whether the set changed.
func (vs *VoteSet) Add(id string) bool {
	if id == "" || vs.Has(id) {
		return false
	}
	if vs.index == nil {
		vs.index = make(map[string]struct{})
	}
	vs.index[id] = struct{}{}
	vs.ids = append(vs.ids, id)
	return true
}

// Remove deletes id and reports whether the set changed.
func (vs *VoteSet) Remove(id string) bool {
	if !vs.Has(id) {
		return false
	}
	delete(vs.index, id)
	for i, v := range vs.ids {
		if v == id {
			vs.ids = append(vs.ids[:i:i], vs.ids[i+1:]...)
			break
		}
	}
	return true
}

// IDs returns a copy of the members in insertion order; never nil.
func (vs VoteSet) IDs() []string {
	out := make([]string, len(vs.ids))
	copy(out, vs.ids)
	return out
}

// Len returns the number of members.
func (vs VoteSet) Len() int { return len(vs.ids) }

// Clone returns an independent copy.
func (vs VoteSet) Clone() VoteSet { return NewVoteSet(vs.ids...) }
