package fundamental

import (
	"fmt"
	"time"

	"github.com/pitquant/fundcore/pkg/logger"
)

// Resolver answers point-in-time field queries: given (query time,
// security, field path) it returns the value that was publicly known
// at that time, or absence. Lookups are pure, deterministic and
// in-memory; nothing here blocks or retries.
type Resolver struct {
	registry *Registry
	store    *Store
	cache    *Cache
	logger   *logger.Logger
}

// NewResolver wires a resolver from its parts. The registry and store
// are read-only during the query phase; the cache is the only shared
// mutable structure.
func NewResolver(registry *Registry, store *Store, cache *Cache, log *logger.Logger) *Resolver {
	return &Resolver{
		registry: registry,
		store:    store,
		cache:    cache,
		logger:   log,
	}
}

// Registry returns the field catalog the resolver validates against
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Get resolves the value of the field at path for sec as known at
// time at. The second return is false when no value was filed by at,
// a normal outcome for sparse financial data, distinct from a
// reported zero. ErrUnknownField is returned for paths absent from
// the catalog.
func (r *Resolver) Get(at time.Time, sec SecurityID, path string) (Value, bool, error) {
	field, err := r.registry.Resolve(path)
	if err != nil {
		return Value{}, false, err
	}
	return r.getField(at, sec, field)
}

func (r *Resolver) getField(at time.Time, sec SecurityID, field Field) (Value, bool, error) {
	key := CacheKey{Security: sec, Field: field.ID, At: at.UnixNano()}
	return r.cache.GetOrCompute(key, func() (Value, bool, error) {
		v, ok := r.store.AsOf(sec, field.ID, at)
		return v, ok, nil
	})
}

// resolveKind looks up the field and checks its registered kind before
// any series access, so a mistyped request fails even when the series
// is empty.
func (r *Resolver) resolveKind(path string, want Kind) (Field, error) {
	field, err := r.registry.Resolve(path)
	if err != nil {
		return Field{}, err
	}
	if field.Kind != want {
		return Field{}, fmt.Errorf("%w: field %s is %s, requested %s",
			ErrTypeMismatch, path, field.Kind, want)
	}
	return field, nil
}

// GetDecimal resolves a decimal field
func (r *Resolver) GetDecimal(at time.Time, sec SecurityID, path string) (float64, bool, error) {
	field, err := r.resolveKind(path, KindDecimal)
	if err != nil {
		return 0, false, err
	}
	v, ok, err := r.getField(at, sec, field)
	if err != nil || !ok {
		return 0, false, err
	}
	f, err := v.Decimal()
	return f, err == nil, err
}

// GetPercent resolves a percentage field; the result is the fraction
func (r *Resolver) GetPercent(at time.Time, sec SecurityID, path string) (float64, bool, error) {
	field, err := r.resolveKind(path, KindPercent)
	if err != nil {
		return 0, false, err
	}
	v, ok, err := r.getField(at, sec, field)
	if err != nil || !ok {
		return 0, false, err
	}
	f, err := v.Percent()
	return f, err == nil, err
}

// GetCurrency resolves a monetary field
func (r *Resolver) GetCurrency(at time.Time, sec SecurityID, path string) (float64, bool, error) {
	field, err := r.resolveKind(path, KindCurrency)
	if err != nil {
		return 0, false, err
	}
	v, ok, err := r.getField(at, sec, field)
	if err != nil || !ok {
		return 0, false, err
	}
	f, err := v.Currency()
	return f, err == nil, err
}

// GetDate resolves a date field
func (r *Resolver) GetDate(at time.Time, sec SecurityID, path string) (time.Time, bool, error) {
	field, err := r.resolveKind(path, KindDate)
	if err != nil {
		return time.Time{}, false, err
	}
	v, ok, err := r.getField(at, sec, field)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	d, err := v.Date()
	return d, err == nil, err
}

// GetEnum resolves an enum field
func (r *Resolver) GetEnum(at time.Time, sec SecurityID, path string) (string, bool, error) {
	field, err := r.resolveKind(path, KindEnum)
	if err != nil {
		return "", false, err
	}
	v, ok, err := r.getField(at, sec, field)
	if err != nil || !ok {
		return "", false, err
	}
	s, err := v.Enum()
	return s, err == nil, err
}

// CacheStats exposes cache counters for diagnostics
func (r *Resolver) CacheStats() CacheStats {
	return r.cache.Stats()
}
