package fundamental

import (
	"fmt"
	"sort"
	"time"
)

// Entry is one reported fact instance. EffectiveTime is the fiscal
// date the value pertains to; FiledTime is when the filing became
// public. Visibility is keyed on FiledTime, never EffectiveTime.
type Entry struct {
	EffectiveTime time.Time
	FiledTime     time.Time
	Value         Value
}

// Series is the ordered sequence of entries for one (security, field)
// pair. Two orderings are maintained on append: the canonical order by
// (effective, filed) and the visibility order by (filed, effective)
// that point-in-time lookups binary-search. Appends happen in the
// single-writer ingestion phase; afterwards the series is immutable
// and reads need no locking.
type Series struct {
	entries []Entry // sorted by (EffectiveTime, FiledTime)
	visible []Entry // sorted by (FiledTime, EffectiveTime)
}

// Len returns the number of entries
func (s *Series) Len() int {
	return len(s.entries)
}

// At returns the i-th entry in canonical (effective, filed) order
func (s *Series) At(i int) Entry {
	return s.entries[i]
}

// Entries returns a copy of the canonical ordering
func (s *Series) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Append inserts an entry keeping both orderings sorted. Duplicate
// (effective, filed) pairs are rejected.
func (s *Series) Append(e Entry) error {
	// Canonical position by (effective, filed)
	i := sort.Search(len(s.entries), func(i int) bool {
		c := s.entries[i]
		if !c.EffectiveTime.Equal(e.EffectiveTime) {
			return c.EffectiveTime.After(e.EffectiveTime)
		}
		return !c.FiledTime.Before(e.FiledTime)
	})
	if i < len(s.entries) &&
		s.entries[i].EffectiveTime.Equal(e.EffectiveTime) &&
		s.entries[i].FiledTime.Equal(e.FiledTime) {
		return fmt.Errorf("%w: effective=%s filed=%s",
			ErrDuplicateEntry,
			e.EffectiveTime.Format("2006-01-02"),
			e.FiledTime.Format("2006-01-02"))
	}
	s.entries = append(s.entries, Entry{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = e

	// Visibility position by (filed, effective)
	j := sort.Search(len(s.visible), func(j int) bool {
		c := s.visible[j]
		if !c.FiledTime.Equal(e.FiledTime) {
			return c.FiledTime.After(e.FiledTime)
		}
		return !c.EffectiveTime.Before(e.EffectiveTime)
	})
	s.visible = append(s.visible, Entry{})
	copy(s.visible[j+1:], s.visible[j:])
	s.visible[j] = e

	return nil
}

// AsOf returns the value visible at time t: the entry with the latest
// FiledTime <= t, ties on FiledTime broken by the latest
// EffectiveTime. Returns false when nothing was filed by t.
func (s *Series) AsOf(t time.Time) (Value, bool) {
	e, ok := s.EntryAsOf(t)
	if !ok {
		return Value{}, false
	}
	return e.Value, true
}

// EntryAsOf is AsOf but returns the full entry. Used by the refresh
// pipeline and by tests that assert on filing metadata.
func (s *Series) EntryAsOf(t time.Time) (Entry, bool) {
	// First index whose FiledTime is after t; everything before it is
	// visible. The visibility ordering makes the last visible entry
	// exactly the (max filed, then max effective) winner.
	i := sort.Search(len(s.visible), func(i int) bool {
		return s.visible[i].FiledTime.After(t)
	})
	if i == 0 {
		return Entry{}, false
	}
	return s.visible[i-1], true
}
