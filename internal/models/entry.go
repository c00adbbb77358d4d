package models

import "time"

// JournalEntry is one day's PDCA record. Multiple entries may share the
// same date.
type JournalEntry struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Date      string     `json:"date"` // YYYY-MM-DD, fixed UTC+9 civil date
	Plan      string     `json:"plan"`
	Do        string     `json:"do"`
	Check     string     `json:"check"`
	Act       string     `json:"act"`
	AIComment string     `json:"ai_comment,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// DateStatus is the per-day summary shown on the calendar. It is
// recomputed wholesale from the entry list, never mutated in place.
type DateStatus struct {
	Date        string     `json:"date"`
	HasEntries  bool       `json:"has_entries"`
	EntryCount  int        `json:"entry_count"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}
