package fundamental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitquant/fundcore/pkg/logger"
)

const (
	pathNetIncome = "FinancialStatements.IncomeStatement.NetIncome"
	pathBasicEPS  = "FinancialStatements.IncomeStatement.BasicEPS"
	pathROE       = "OperationRatios.ROE"
	pathPeriodEnd = "FinancialStatements.PeriodEndingDate"
	pathFormType  = "FinancialStatements.FormType"
)

func newTestResolver(t *testing.T) (*Resolver, *Store, *Cache) {
	t.Helper()
	reg := NewRegistry()
	store := NewStore()
	cache := NewCache(1024)
	return NewResolver(reg, store, cache, logger.NewNop()), store, cache
}

func seedNetIncome(t *testing.T, store *Store) {
	t.Helper()
	require.NoError(t, store.Append("AAPL", testNetIncome,
		Entry{day(2023, 12, 31), day(2024, 2, 1), Currency(1000)}))
	require.NoError(t, store.Append("AAPL", testNetIncome,
		Entry{day(2024, 3, 31), day(2024, 5, 1), Currency(1200)}))
}

func TestResolverPointInTime(t *testing.T) {
	res, store, _ := newTestResolver(t)
	seedNetIncome(t, store)
	store.Freeze()

	// Before the first filing: nothing is public yet
	_, ok, err := res.Get(day(2024, 1, 15), "AAPL", pathNetIncome)
	require.NoError(t, err)
	assert.False(t, ok)

	// After the Q4 filing, before Q1: the Q4 value
	v, ok, err := res.Get(day(2024, 3, 1), "AAPL", pathNetIncome)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, v.Equal(Currency(1000)))

	// After both filings: the latest
	v, ok, err = res.Get(day(2024, 6, 1), "AAPL", pathNetIncome)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, v.Equal(Currency(1200)))
}

func TestResolverNoLookahead(t *testing.T) {
	res, store, _ := newTestResolver(t)
	seedNetIncome(t, store)
	store.Freeze()

	filed := day(2024, 5, 1)

	// Any query strictly before a filing never sees it, down to the
	// nanosecond before.
	for _, at := range []time.Time{
		filed.Add(-time.Nanosecond),
		filed.Add(-time.Hour),
		filed.AddDate(0, 0, -1),
	} {
		v, ok, err := res.Get(at, "AAPL", pathNetIncome)
		require.NoError(t, err)
		require.True(t, ok, at)
		assert.True(t, v.Equal(Currency(1000)), at)
	}

	// At the filing instant the value flips
	v, ok, err := res.Get(filed, "AAPL", pathNetIncome)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, v.Equal(Currency(1200)))
}

func TestResolverMonotonicVisibility(t *testing.T) {
	res, store, _ := newTestResolver(t)
	seedNetIncome(t, store)
	store.Freeze()

	// Stepping a query time forward can change the value, but once a
	// field is visible it never becomes absent again.
	seen := false
	for at := day(2024, 1, 1); at.Before(day(2024, 12, 31)); at = at.AddDate(0, 0, 7) {
		_, ok, err := res.Get(at, "AAPL", pathNetIncome)
		require.NoError(t, err)
		if seen {
			assert.True(t, ok, at)
		}
		if ok {
			seen = true
		}
	}
	assert.True(t, seen)
}

func TestResolverIdempotence(t *testing.T) {
	res, store, cache := newTestResolver(t)
	seedNetIncome(t, store)
	store.Freeze()

	at := day(2024, 6, 1)

	first, ok1, err := res.Get(at, "AAPL", pathNetIncome)
	require.NoError(t, err)
	require.True(t, ok1)

	// Cached path
	second, ok2, err := res.Get(at, "AAPL", pathNetIncome)
	require.NoError(t, err)
	require.True(t, ok2)
	assert.True(t, first.Equal(second))

	// Recomputed path after a purge must agree with the cached path
	cache.Purge()
	third, ok3, err := res.Get(at, "AAPL", pathNetIncome)
	require.NoError(t, err)
	require.True(t, ok3)
	assert.True(t, first.Equal(third))
}

func TestResolverAbsenceIsNotAnError(t *testing.T) {
	res, store, _ := newTestResolver(t)
	seedNetIncome(t, store)
	store.Freeze()

	// Known field, no data for this security: absent, nil error
	_, ok, err := res.Get(day(2024, 6, 1), "TSLA", pathNetIncome)
	assert.NoError(t, err)
	assert.False(t, ok)

	// Unknown path is an error, not absence
	_, _, err = res.Get(day(2024, 6, 1), "AAPL", "FinancialStatements.IncomeStatement.Bogus")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestResolverCachesAbsence(t *testing.T) {
	res, store, _ := newTestResolver(t)
	seedNetIncome(t, store)
	store.Freeze()

	at := day(2024, 1, 15)

	_, ok, err := res.Get(at, "AAPL", pathNetIncome)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = res.Get(at, "AAPL", pathNetIncome)
	require.NoError(t, err)
	require.False(t, ok)

	stats := res.CacheStats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestResolverTypedGetters(t *testing.T) {
	res, store, _ := newTestResolver(t)
	seedNetIncome(t, store)

	epsField, err := res.Registry().Resolve(pathBasicEPS)
	require.NoError(t, err)
	require.NoError(t, store.Append("AAPL", epsField.ID,
		Entry{day(2023, 12, 31), day(2024, 2, 1), Decimal(6.13)}))

	roeField, err := res.Registry().Resolve(pathROE)
	require.NoError(t, err)
	require.NoError(t, store.Append("AAPL", roeField.ID,
		Entry{day(2023, 12, 31), day(2024, 2, 1), Percent(0.26)}))

	peField, err := res.Registry().Resolve(pathPeriodEnd)
	require.NoError(t, err)
	require.NoError(t, store.Append("AAPL", peField.ID,
		Entry{day(2023, 12, 31), day(2024, 2, 1), Date(day(2023, 12, 31))}))

	ftField, err := res.Registry().Resolve(pathFormType)
	require.NoError(t, err)
	require.NoError(t, store.Append("AAPL", ftField.ID,
		Entry{day(2023, 12, 31), day(2024, 2, 1), Enum("10-K")}))

	store.Freeze()
	at := day(2024, 3, 1)

	c, ok, err := res.GetCurrency(at, "AAPL", pathNetIncome)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, float64(1000), c)

	d, ok, err := res.GetDecimal(at, "AAPL", pathBasicEPS)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 6.13, d)

	p, ok, err := res.GetPercent(at, "AAPL", pathROE)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.26, p)

	dt, ok, err := res.GetDate(at, "AAPL", pathPeriodEnd)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, day(2023, 12, 31), dt)

	e, ok, err := res.GetEnum(at, "AAPL", pathFormType)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "10-K", e)
}

func TestResolverTypedGetterKindMismatch(t *testing.T) {
	res, store, _ := newTestResolver(t)
	seedNetIncome(t, store)
	store.Freeze()

	// NetIncome is a currency field; a decimal request is a mismatch
	// even though data exists
	_, _, err := res.GetDecimal(day(2024, 6, 1), "AAPL", pathNetIncome)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	// The kind check fires before any series access: a mistyped request
	// for a field with no data still fails
	_, _, err = res.GetCurrency(day(2024, 6, 1), "TSLA", pathBasicEPS)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	// Typed getters reject unknown paths too
	_, _, err = res.GetCurrency(day(2024, 6, 1), "AAPL", "No.Such.Field")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestResolverSeesLiveAppends(t *testing.T) {
	res, store, _ := newTestResolver(t)
	require.NoError(t, store.Append("AAPL", testNetIncome,
		Entry{day(2023, 12, 31), day(2024, 2, 1), Currency(1000)}))

	// A refresh appends a new filing; queries at later times see it.
	// Earlier query times are unaffected (their keys differ).
	v, ok, err := res.Get(day(2024, 3, 1), "AAPL", pathNetIncome)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, v.Equal(Currency(1000)))

	require.NoError(t, store.Append("AAPL", testNetIncome,
		Entry{day(2024, 3, 31), day(2024, 5, 1), Currency(1200)}))

	v, ok, err = res.Get(day(2024, 6, 1), "AAPL", pathNetIncome)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, v.Equal(Currency(1200)))
}
