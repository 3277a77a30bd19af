package fundamental

import (
	"fmt"
	"sort"
)

// SecurityID is the opaque stable key identifying a tradable
// instrument. The engine never interprets it; it only partitions
// series by it.
type SecurityID string

// FieldID is the stable numeric code of a field. Codes never change
// meaning across catalog revisions.
type FieldID uint32

// Field describes one scalar fundamental-data fact.
type Field struct {
	ID          FieldID
	Path        string // dotted logical name, e.g. "FinancialStatements.IncomeStatement.NetIncome"
	Kind        Kind
	Description string
}

// Registry is the static field catalog: path -> field definition.
// Built once at startup and read-only afterwards, so concurrent reads
// need no locking. Construct one explicitly and pass it where needed.
type Registry struct {
	byPath map[string]Field
	byID   map[FieldID]Field
	fields []Field // sorted by path
}

// NewRegistry builds a registry from the builtin catalog
func NewRegistry() *Registry {
	r, err := NewRegistryFromFields(builtinCatalog)
	if err != nil {
		// The builtin catalog is validated by tests; a bad entry is a
		// programming error.
		panic(err)
	}
	return r
}

// NewRegistryFromFields builds a registry from an explicit field list.
// Used by tests and by tooling that works with partial catalogs.
func NewRegistryFromFields(fields []Field) (*Registry, error) {
	r := &Registry{
		byPath: make(map[string]Field, len(fields)),
		byID:   make(map[FieldID]Field, len(fields)),
		fields: make([]Field, 0, len(fields)),
	}

	for _, f := range fields {
		if f.Path == "" {
			return nil, fmt.Errorf("field %d has empty path", f.ID)
		}
		if f.Kind < KindDecimal || f.Kind > KindEnum {
			return nil, fmt.Errorf("field %q has invalid kind", f.Path)
		}
		if _, exists := r.byPath[f.Path]; exists {
			return nil, fmt.Errorf("duplicate field path %q", f.Path)
		}
		if _, exists := r.byID[f.ID]; exists {
			return nil, fmt.Errorf("duplicate field code %d (%s)", f.ID, f.Path)
		}
		r.byPath[f.Path] = f
		r.byID[f.ID] = f
		r.fields = append(r.fields, f)
	}

	sort.Slice(r.fields, func(i, j int) bool {
		return r.fields[i].Path < r.fields[j].Path
	})

	return r, nil
}

// Resolve looks up a field by path
func (r *Registry) Resolve(path string) (Field, error) {
	f, ok := r.byPath[path]
	if !ok {
		return Field{}, fmt.Errorf("%w: %s", ErrUnknownField, path)
	}
	return f, nil
}

// ByID looks up a field by numeric code
func (r *Registry) ByID(id FieldID) (Field, bool) {
	f, ok := r.byID[id]
	return f, ok
}

// List returns all fields sorted by path. The returned slice is a copy.
func (r *Registry) List() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len returns the number of registered fields
func (r *Registry) Len() int {
	return len(r.fields)
}
