package domain

import "time"

// Record schema versions. Version 0 covers blobs written before the schema
// was versioned: no schemaVersion key and usually no category.
const (
	SchemaV0      = 0
	SchemaV1      = 1
	SchemaCurrent = SchemaV1
)

// IdeaRecord is the persisted shape of an Idea. Optional fields are
// pointers so an absent key survives a decode/encode round trip as absent.
type IdeaRecord struct {
	SchemaVersion int        `json:"schemaVersion,omitempty"`
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Tagline       string     `json:"tagline"`
	Description   string     `json:"description"`
	Category      *Category  `json:"category,omitempty"`
	Rating        int        `json:"rating"`
	Feedback      *string    `json:"feedback,omitempty"`
	Votes         int        `json:"votes"`
	Voted         bool       `json:"voted"`
	SubmittedAt   *ISOTime   `json:"submittedAt,omitempty"`
}

// isoLayout is the form Date.toISOString produces in the mobile client,
// e.g. "2024-05-01T10:00:00.000Z": always UTC, always milliseconds.
const isoLayout = "2006-01-02T15:04:05.000Z"

// ISOTime is a timestamp stored in isoLayout, so records written by the
// mobile client keep their exact bytes when the slot is rewritten. Any
// RFC 3339 value is accepted on decode.
type ISOTime time.Time

// MarshalJSON writes t in UTC at millisecond precision.
func (t ISOTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).UTC().Format(isoLayout) + `"`), nil
}

// UnmarshalJSON parses an RFC 3339 string.
func (t *ISOTime) UnmarshalJSON(b []byte) error {
	var tt time.Time
	if err := tt.UnmarshalJSON(b); err != nil {
		return err
	}
	*t = ISOTime(tt)
	return nil
}

// MigrateRecord upgrades a record of any known version to an Idea and
// applies defaults: votes are floored at 0 and rating is clamped to [0,100].
// A missing category stays empty; consumers treat it as uncategorized.
func MigrateRecord(r IdeaRecord) Idea {
	idea := Idea{
		ID:          r.ID,
		Name:        r.Name,
		Tagline:     r.Tagline,
		Description: r.Description,
		Rating:      clamp(r.Rating, 0, 100),
		Votes:       max(r.Votes, 0),
		Voted:       r.Voted,
	}
	if r.Category != nil {
		idea.Category = *r.Category
	}
	if r.Feedback != nil {
		idea.Feedback = *r.Feedback
	}
	if r.SubmittedAt != nil {
		idea.SubmittedAt = time.Time(*r.SubmittedAt)
	}
	return idea
}

// ToRecord converts an Idea to the current record version. Empty optional
// fields are written as absent keys.
func ToRecord(i Idea) IdeaRecord {
	r := IdeaRecord{
		SchemaVersion: SchemaCurrent,
		ID:            i.ID,
		Name:          i.Name,
		Tagline:       i.Tagline,
		Description:   i.Description,
		Rating:        i.Rating,
		Votes:         i.Votes,
		Voted:         i.Voted,
	}
	if i.Category != "" {
		c := i.Category
		r.Category = &c
	}
	if i.Feedback != "" {
		f := i.Feedback
		r.Feedback = &f
	}
	if !i.SubmittedAt.IsZero() {
		t := ISOTime(i.SubmittedAt)
		r.SubmittedAt = &t
	}
	return r
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
