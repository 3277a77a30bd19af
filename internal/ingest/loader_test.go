package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitquant/fundcore/internal/fundamental"
	"github.com/pitquant/fundcore/pkg/logger"
)

type stubSource struct {
	all   []Record
	since []Record
	err   error
}

func (s *stubSource) LoadAll(ctx context.Context) ([]Record, error) {
	return s.all, s.err
}

func (s *stubSource) LoadSince(ctx context.Context, since time.Time) ([]Record, error) {
	return s.since, s.err
}

func fptr(f float64) *float64     { return &f }
func sptr(s string) *string       { return &s }
func dptr(t time.Time) *time.Time { return &t }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func currencyRecord(sec string, code uint32, eff, filed time.Time, v float64) Record {
	return Record{
		Security:      sec,
		FieldCode:     code,
		EffectiveDate: eff,
		FiledDate:     filed,
		Kind:          "currency",
		NumValue:      fptr(v),
	}
}

func TestLoaderLoadAll(t *testing.T) {
	source := &stubSource{all: []Record{
		currencyRecord("AAPL", 10110, day(2023, 12, 31), day(2024, 2, 1), 1000),
		currencyRecord("AAPL", 10110, day(2024, 3, 31), day(2024, 5, 1), 1200),
		{
			Security:      "AAPL",
			FieldCode:     60050,
			EffectiveDate: day(2023, 12, 31),
			FiledDate:     day(2024, 2, 1),
			Kind:          "enum",
			TextValue:     sptr("10-K"),
		},
	}}

	registry := fundamental.NewRegistry()
	store := fundamental.NewStore()
	loader := NewLoader(source, registry, store, logger.NewNop())

	res, err := loader.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Loaded)
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, day(2024, 5, 1), res.MaxFiledDate)

	v, ok := store.AsOf("AAPL", 10110, day(2024, 6, 1))
	require.True(t, ok)
	assert.True(t, v.Equal(fundamental.Currency(1200)))
}

func TestLoaderSkipsUnknownFieldCode(t *testing.T) {
	source := &stubSource{all: []Record{
		currencyRecord("AAPL", 99999, day(2023, 12, 31), day(2024, 2, 1), 1000),
		currencyRecord("AAPL", 10110, day(2023, 12, 31), day(2024, 2, 1), 1000),
	}}

	store := fundamental.NewStore()
	loader := NewLoader(source, fundamental.NewRegistry(), store, logger.NewNop())

	res, err := loader.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Loaded)
	assert.Equal(t, 1, res.Skipped)
}

func TestLoaderSkipsKindMismatch(t *testing.T) {
	// NetIncome is a currency field; a stored percent row is corrupt
	rec := currencyRecord("AAPL", 10110, day(2023, 12, 31), day(2024, 2, 1), 0.5)
	rec.Kind = "percent"

	source := &stubSource{all: []Record{rec}}
	store := fundamental.NewStore()
	loader := NewLoader(source, fundamental.NewRegistry(), store, logger.NewNop())

	res, err := loader.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Loaded)
	assert.Equal(t, 1, res.Skipped)

	_, ok := store.AsOf("AAPL", 10110, day(2024, 6, 1))
	assert.False(t, ok)
}

func TestLoaderDateField(t *testing.T) {
	source := &stubSource{all: []Record{{
		Security:      "AAPL",
		FieldCode:     60010,
		EffectiveDate: day(2023, 12, 31),
		FiledDate:     day(2024, 2, 1),
		Kind:          "date",
		DateValue:     dptr(day(2023, 12, 31)),
	}}}

	store := fundamental.NewStore()
	loader := NewLoader(source, fundamental.NewRegistry(), store, logger.NewNop())

	res, err := loader.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Loaded)

	v, ok := store.AsOf("AAPL", 60010, day(2024, 3, 1))
	require.True(t, ok)
	got, err := v.Date()
	require.NoError(t, err)
	assert.Equal(t, day(2023, 12, 31), got)
}

func TestLoaderSkipsMissingPayload(t *testing.T) {
	rec := Record{
		Security:      "AAPL",
		FieldCode:     10110,
		EffectiveDate: day(2023, 12, 31),
		FiledDate:     day(2024, 2, 1),
		Kind:          "currency",
		// NumValue missing
	}

	source := &stubSource{all: []Record{rec}}
	loader := NewLoader(source, fundamental.NewRegistry(), fundamental.NewStore(), logger.NewNop())

	res, err := loader.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
}

func TestLoaderSinceSkipsDuplicates(t *testing.T) {
	rec := currencyRecord("AAPL", 10110, day(2023, 12, 31), day(2024, 2, 1), 1000)
	source := &stubSource{
		all:   []Record{rec},
		since: []Record{rec, currencyRecord("AAPL", 10110, day(2024, 3, 31), day(2024, 5, 1), 1200)},
	}

	store := fundamental.NewStore()
	loader := NewLoader(source, fundamental.NewRegistry(), store, logger.NewNop())

	_, err := loader.LoadAll(context.Background())
	require.NoError(t, err)

	// The refresh window overlaps the watermark: the duplicate is
	// skipped, the new filing lands
	res, err := loader.LoadSince(context.Background(), day(2024, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Loaded)
	assert.Equal(t, 1, res.Skipped)

	// The skipped duplicate does not move the watermark
	assert.Equal(t, day(2024, 5, 1), res.MaxFiledDate)

	v, ok := store.AsOf("AAPL", 10110, day(2024, 6, 1))
	require.True(t, ok)
	assert.True(t, v.Equal(fundamental.Currency(1200)))
}

func TestLoaderSourceError(t *testing.T) {
	boom := errors.New("connection refused")
	loader := NewLoader(&stubSource{err: boom}, fundamental.NewRegistry(), fundamental.NewStore(), logger.NewNop())

	_, err := loader.LoadAll(context.Background())
	assert.ErrorIs(t, err, boom)

	_, err = loader.LoadSince(context.Background(), day(2024, 1, 1))
	assert.ErrorIs(t, err, boom)
}

func TestEncodeValueRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		val  fundamental.Value
	}{
		{"currency", fundamental.Currency(1000)},
		{"decimal", fundamental.Decimal(6.16)},
		{"percent", fundamental.Percent(0.26)},
		{"date", fundamental.Date(day(2023, 12, 31))},
		{"enum", fundamental.Enum("10-K")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, num, text, date, err := EncodeValue(tt.val)
			require.NoError(t, err)
			assert.Equal(t, tt.val.Kind().String(), kind)

			switch tt.val.Kind() {
			case fundamental.KindDate:
				require.NotNil(t, date)
			case fundamental.KindEnum:
				require.NotNil(t, text)
			default:
				require.NotNil(t, num)
			}
		})
	}
}
