package domain

import "time"

// Slot names one of the two persisted collections.
type Slot string

const (
	// SlotIdeas holds the idea collection in insertion order.
	SlotIdeas Slot = "ideas"
	// SlotVotes holds the local user's voted idea ids.
	SlotVotes Slot = "votes"
)

// Key returns the storage key of the slot. The keys match the ones the
// mobile client has always written, so existing data stays readable.
func (s Slot) Key() string {
	switch s {
	case SlotIdeas:
		return "startup_ideas"
	case SlotVotes:
		return "user_votes"
	default:
		return string(s)
	}
}

// Slots lists every slot, ideas first.
func Slots() []Slot { return []Slot{SlotIdeas, SlotVotes} }

// SlotBlob is one persisted blob in the SQLite backend.
//
// Fields:
//   - Name: storage key (primary key).
//   - Payload: serialized record list.
//   - UpdatedAt: time of the last write, managed by GORM.
type SlotBlob struct {
	Name      string    `gorm:"type:varchar(64);primaryKey"`
	Payload   string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the database table name for SlotBlob.
func (SlotBlob) TableName() string { return "slots" }
