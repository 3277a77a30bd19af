package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pitquant/fundcore/internal/fundamental"
	"github.com/pitquant/fundcore/pkg/logger"
)

// RecordSource abstracts where records come from so the loader can be
// fed from the database or from a fixture in tests.
type RecordSource interface {
	LoadAll(ctx context.Context) ([]Record, error)
	LoadSince(ctx context.Context, since time.Time) ([]Record, error)
}

// LoadResult summarizes one load pass
type LoadResult struct {
	Loaded       int
	Skipped      int
	Securities   []string  // distinct securities that gained entries
	MaxFiledDate time.Time // latest filed date among the loaded entries
}

// Loader pulls persisted records into the in-memory store, validating
// each against the field catalog. Records for unknown field codes or
// with payloads that disagree with the registered kind are skipped and
// logged rather than failing the whole load; a partial catalog mismatch
// must not take the engine down.
type Loader struct {
	source   RecordSource
	registry *fundamental.Registry
	store    *fundamental.Store
	logger   *logger.Logger
}

// NewLoader creates a new Loader instance
func NewLoader(source RecordSource, registry *fundamental.Registry, store *fundamental.Store, log *logger.Logger) *Loader {
	return &Loader{
		source:   source,
		registry: registry,
		store:    store,
		logger:   log,
	}
}

// LoadAll loads every persisted record into the store
func (l *Loader) LoadAll(ctx context.Context) (LoadResult, error) {
	records, err := l.source.LoadAll(ctx)
	if err != nil {
		return LoadResult{}, fmt.Errorf("load all records: %w", err)
	}
	return l.ingest(records), nil
}

// LoadSince loads records filed after the watermark into the store,
// used by the scheduled refresh
func (l *Loader) LoadSince(ctx context.Context, since time.Time) (LoadResult, error) {
	records, err := l.source.LoadSince(ctx, since)
	if err != nil {
		return LoadResult{}, fmt.Errorf("load records since %s: %w", since.Format("2006-01-02"), err)
	}
	return l.ingest(records), nil
}

func (l *Loader) ingest(records []Record) LoadResult {
	var res LoadResult
	seen := make(map[string]struct{})

	for _, rec := range records {
		field, ok := l.registry.ByID(fundamental.FieldID(rec.FieldCode))
		if !ok {
			l.logger.WithFields(map[string]interface{}{
				"field_code": rec.FieldCode,
				"security":   rec.Security,
			}).Warn("skipping record for unknown field code")
			res.Skipped++
			continue
		}

		value, err := decodeValue(field, rec)
		if err != nil {
			l.logger.WithError(err).WithFields(map[string]interface{}{
				"security": rec.Security,
				"field":    field.Path,
			}).Warn("skipping undecodable record")
			res.Skipped++
			continue
		}

		entry := fundamental.Entry{
			EffectiveTime: rec.EffectiveDate,
			FiledTime:     rec.FiledDate,
			Value:         value,
		}
		err = l.store.Append(fundamental.SecurityID(rec.Security), field.ID, entry)
		if err != nil {
			if errors.Is(err, fundamental.ErrDuplicateEntry) {
				// Refresh windows overlap the watermark; duplicates
				// are expected and harmless
				res.Skipped++
				continue
			}
			l.logger.WithError(err).WithFields(map[string]interface{}{
				"security": rec.Security,
				"field":    field.Path,
			}).Warn("skipping rejected record")
			res.Skipped++
			continue
		}
		res.Loaded++
		if rec.FiledDate.After(res.MaxFiledDate) {
			res.MaxFiledDate = rec.FiledDate
		}
		if _, dup := seen[rec.Security]; !dup {
			seen[rec.Security] = struct{}{}
			res.Securities = append(res.Securities, rec.Security)
		}
	}

	l.logger.WithFields(map[string]interface{}{
		"loaded":  res.Loaded,
		"skipped": res.Skipped,
	}).Info("record load complete")

	return res
}

// decodeValue rebuilds a typed value from a stored record, checking
// the stored kind against the catalog and the payload column against
// the kind.
func decodeValue(field fundamental.Field, rec Record) (fundamental.Value, error) {
	kind, err := fundamental.KindFromString(rec.Kind)
	if err != nil {
		return fundamental.Value{}, err
	}
	if kind != field.Kind {
		return fundamental.Value{}, fmt.Errorf("stored kind %s disagrees with catalog kind %s", kind, field.Kind)
	}

	switch kind {
	case fundamental.KindDecimal:
		if rec.NumValue == nil {
			return fundamental.Value{}, errors.New("decimal record without numeric payload")
		}
		return fundamental.Decimal(*rec.NumValue), nil
	case fundamental.KindPercent:
		if rec.NumValue == nil {
			return fundamental.Value{}, errors.New("percent record without numeric payload")
		}
		return fundamental.Percent(*rec.NumValue), nil
	case fundamental.KindCurrency:
		if rec.NumValue == nil {
			return fundamental.Value{}, errors.New("currency record without numeric payload")
		}
		return fundamental.Currency(*rec.NumValue), nil
	case fundamental.KindDate:
		if rec.DateValue == nil {
			return fundamental.Value{}, errors.New("date record without date payload")
		}
		return fundamental.Date(*rec.DateValue), nil
	case fundamental.KindEnum:
		if rec.TextValue == nil {
			return fundamental.Value{}, errors.New("enum record without text payload")
		}
		return fundamental.Enum(*rec.TextValue), nil
	default:
		return fundamental.Value{}, fmt.Errorf("unhandled kind %s", kind)
	}
}

// EncodeValue converts a typed value into record columns for storage
func EncodeValue(v fundamental.Value) (kind string, num *float64, text *string, date *time.Time, err error) {
	kind = v.Kind().String()

	switch v.Kind() {
	case fundamental.KindDecimal, fundamental.KindPercent, fundamental.KindCurrency:
		f, ferr := v.Float()
		if ferr != nil {
			return "", nil, nil, nil, ferr
		}
		return kind, &f, nil, nil, nil
	case fundamental.KindDate:
		d, derr := v.Date()
		if derr != nil {
			return "", nil, nil, nil, derr
		}
		return kind, nil, nil, &d, nil
	case fundamental.KindEnum:
		s, serr := v.Enum()
		if serr != nil {
			return "", nil, nil, nil, serr
		}
		return kind, nil, &s, nil, nil
	default:
		return "", nil, nil, nil, fmt.Errorf("cannot encode kind %s", v.Kind())
	}
}
