package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryKind discriminates the two event types in a register's ledger feed.
type EntryKind string

const (
	EntryOpening EntryKind = "opening"
	EntryClosing EntryKind = "closing"
)

// Entry is one event in the flat, chronologically ordered ledger feed.
// Opening entries carry Amount; closing entries additionally carry the
// counted/expected/variance figures and the closing case.
type Entry struct {
	Kind       EntryKind
	SessionID  *uuid.UUID
	UserID     uuid.UUID
	UserName   string
	Amount     decimal.Decimal
	Counted    *decimal.Decimal
	Expected   *decimal.Decimal
	Variance   *decimal.Decimal
	Case       *Case
	OccurredAt time.Time
}

// SessionGroup is one session's worth of ledger entries, display-ready.
// Closing is nil for a session still open (or whose closing never reached
// the feed).
type SessionGroup struct {
	SessionID *uuid.UUID
	Opening   Entry
	Closing   *Entry
}

// Group folds the flat feed into per-session records in a single forward
// pass, O(n). Each closing pairs with the most recent unmatched opening.
// Groups come out in the order their openings occurred.
//
// Anomalous feeds degrade instead of erroring:
//   - two openings in a row flush the first as an open-only group;
//   - a closing with no pending opening becomes its own group, standing in
//     for its missing opening.
func Group(entries []Entry) []SessionGroup {
	groups := make([]SessionGroup, 0, len(entries)/2+1)
	var pending *Entry

	for i := range entries {
		e := entries[i]
		switch e.Kind {
		case EntryOpening:
			if pending != nil {
				groups = append(groups, SessionGroup{SessionID: pending.SessionID, Opening: *pending})
			}
			pending = &e
		case EntryClosing:
			if pending != nil {
				groups = append(groups, SessionGroup{SessionID: pending.SessionID, Opening: *pending, Closing: &e})
				pending = nil
			} else {
				// truncated history: the closing doubles as its own opening
				groups = append(groups, SessionGroup{SessionID: e.SessionID, Opening: e, Closing: &e})
			}
		}
	}

	if pending != nil {
		groups = append(groups, SessionGroup{SessionID: pending.SessionID, Opening: *pending})
	}
	return groups
}

// Paginate slices the grouped list. Pagination always runs over groups, not
// raw entries, so a session's opening and closing never land on different
// pages. Page numbering starts at 1.
func Paginate(groups []SessionGroup, page, size int) []SessionGroup {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(groups) {
		return nil
	}
	end := start + size
	if end > len(groups) {
		end = len(groups)
	}
	return groups[start:end]
}
