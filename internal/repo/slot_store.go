// Package repo implements the persistence layer of the idea board. This
// file provides SlotStore, the typed view over a Backend that reads and
// writes the two named slots as JSON record lists.
//
// Error semantics:
//   - A slot that was never written reads as an empty sequence.
//   - Backend failures are wrapped in *domain.StorageError.
//   - Blobs that fail to decode are reported as *domain.ParseError.
//   - The two slots are independent: nothing here spans both in one write.
package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/tbourn/go-idea-board/internal/domain"
)

// SlotStore reads and writes the idea and vote slots.
type SlotStore struct {
	Backend Backend
}

// NewSlotStore returns a SlotStore over b.
func NewSlotStore(b Backend) *SlotStore {
	return &SlotStore{Backend: b}
}

// ReadIdeas decodes the idea slot, migrating every record to the current
// schema. Insertion order is preserved.
func (s *SlotStore) ReadIdeas(ctx context.Context) ([]domain.Idea, error) {
	var recs []domain.IdeaRecord
	if err := s.read(ctx, domain.SlotIdeas, &recs); err != nil {
		return nil, err
	}
	out := make([]domain.Idea, 0, len(recs))
	for _, r := range recs {
		out = append(out, domain.MigrateRecord(r))
	}
	return out, nil
}

// WriteIdeas replaces the idea slot with ideas, encoded at the current
// schema version.
func (s *SlotStore) WriteIdeas(ctx context.Context, ideas []domain.Idea) error {
	recs := make([]domain.IdeaRecord, 0, len(ideas))
	for _, i := range ideas {
		recs = append(recs, domain.ToRecord(i))
	}
	return s.write(ctx, domain.SlotIdeas, recs)
}

// ReadVotes decodes the vote slot. Duplicate ids collapse into one member.
func (s *SlotStore) ReadVotes(ctx context.Context) (domain.VoteSet, error) {
	var ids []string
	if err := s.read(ctx, domain.SlotVotes, &ids); err != nil {
		return domain.VoteSet{}, err
	}
	return domain.NewVoteSet(ids...), nil
}

// WriteVotes replaces the vote slot with the members of vs.
func (s *SlotStore) WriteVotes(ctx context.Context, vs domain.VoteSet) error {
	return s.write(ctx, domain.SlotVotes, vs.IDs())
}

// Clear deletes both slots. It attempts both deletes and returns the
// first failure.
func (s *SlotStore) Clear(ctx context.Context) error {
	var first error
	for _, slot := range domain.Slots() {
		if err := s.Backend.Delete(ctx, slot.Key()); err != nil && first == nil {
			first = &domain.StorageError{Op: "delete", Slot: string(slot), Err: err}
		}
	}
	return first
}

func (s *SlotStore) read(ctx context.Context, slot domain.Slot, dst any) error {
	blob, err := s.Backend.Load(ctx, slot.Key())
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return &domain.StorageError{Op: "read", Slot: string(slot), Err: err}
	}
	blob = bytes.TrimSpace(blob)
	if len(blob) == 0 || bytes.Equal(blob, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(blob, dst); err != nil {
		return &domain.ParseError{Slot: string(slot), Err: err}
	}
	return nil
}

func (s *SlotStore) write(ctx context.Context, slot domain.Slot, v any) error {
	blob, err := json.Marshal(v)
	if err != nil {
		return &domain.StorageError{Op: "write", Slot: string(slot), Err: err}
	}
	if err := s.Backend.Save(ctx, slot.Key(), blob); err != nil {
		return &domain.StorageError{Op: "write", Slot: string(slot), Err: err}
	}
	return nil
}
