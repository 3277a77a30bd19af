package fundamental

import (
	"sort"
	"sync"
	"time"
)

// Store holds the per-(security, field) time series. Ingestion is a
// single-writer phase; Freeze marks its end, after which appends fail
// and series contents are immutable. The RWMutex only guards the map
// structure and the live-refresh append path; steady-state reads take
// a read lock with no contention.
type Store struct {
	mu      sync.RWMutex
	series  map[SecurityID]map[FieldID]*Series
	frozen  bool
	entries int
}

// StoreStats summarizes store contents
type StoreStats struct {
	Securities int `json:"securities"`
	Series     int `json:"series"`
	Entries    int `json:"entries"`
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		series: make(map[SecurityID]map[FieldID]*Series),
	}
}

// Append inserts one entry into the (security, field) series, creating
// it if needed. Fails once the store is frozen.
func (s *Store) Append(sec SecurityID, field FieldID, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen {
		return ErrStoreFrozen
	}

	fields, ok := s.series[sec]
	if !ok {
		fields = make(map[FieldID]*Series)
		s.series[sec] = fields
	}

	ser, ok := fields[field]
	if !ok {
		ser = &Series{}
		fields[field] = ser
	}

	if err := ser.Append(e); err != nil {
		return err
	}
	s.entries++
	return nil
}

// Freeze ends the ingestion phase. Idempotent.
func (s *Store) Freeze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozen = true
}

// Frozen reports whether the ingestion phase has ended
func (s *Store) Frozen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frozen
}

// Series returns the series for (security, field), or false when none
// exists. The returned series must be treated as read-only.
func (s *Store) Series(sec SecurityID, field FieldID) (*Series, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.series[sec]
	if !ok {
		return nil, false
	}
	ser, ok := fields[field]
	return ser, ok
}

// AsOf performs the point-in-time lookup under the store's read lock,
// which keeps it safe against live-refresh appends. Absence (no
// series, or nothing filed by t) is the false return, not an error.
func (s *Store) AsOf(sec SecurityID, field FieldID, t time.Time) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.series[sec]
	if !ok {
		return Value{}, false
	}
	ser, ok := fields[field]
	if !ok {
		return Value{}, false
	}
	return ser.AsOf(t)
}

// Securities returns all security identifiers present in the store,
// sorted for stable listings
func (s *Store) Securities() []SecurityID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SecurityID, 0, len(s.series))
	for sec := range s.series {
		out = append(out, sec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Stats returns store counters
func (s *Store) Stats() StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := StoreStats{
		Securities: len(s.series),
		Entries:    s.entries,
	}
	for _, fields := range s.series {
		stats.Series += len(fields)
	}
	return stats
}
