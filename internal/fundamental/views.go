package fundamental

import "time"

// Fundamentals binds a resolver to one security and hands out the
// per-statement views. The views are the thinnest possible layer: each
// named accessor forwards (time, security, path) to the resolver's
// generic typed getters and adds nothing else.
type Fundamentals struct {
	res *Resolver
	sec SecurityID
}

// Security returns a fundamentals view bound to sec
func (r *Resolver) Security(sec SecurityID) Fundamentals {
	return Fundamentals{res: r, sec: sec}
}

// ID returns the bound security identifier
func (f Fundamentals) ID() SecurityID {
	return f.sec
}

// Get forwards to the generic resolver lookup
func (f Fundamentals) Get(at time.Time, path string) (Value, bool, error) {
	return f.res.Get(at, f.sec, path)
}

func (f Fundamentals) currency(at time.Time, path string) (float64, bool, error) {
	return f.res.GetCurrency(at, f.sec, path)
}

func (f Fundamentals) decimal(at time.Time, path string) (float64, bool, error) {
	return f.res.GetDecimal(at, f.sec, path)
}

func (f Fundamentals) percent(at time.Time, path string) (float64, bool, error) {
	return f.res.GetPercent(at, f.sec, path)
}

// IncomeStatement returns the income statement view
func (f Fundamentals) IncomeStatement() IncomeStatement {
	return IncomeStatement{f}
}

// BalanceSheet returns the balance sheet view
func (f Fundamentals) BalanceSheet() BalanceSheet {
	return BalanceSheet{f}
}

// CashFlowStatement returns the cash flow statement view
func (f Fundamentals) CashFlowStatement() CashFlowStatement {
	return CashFlowStatement{f}
}

// OperationRatios returns the operating ratios view
func (f Fundamentals) OperationRatios() OperationRatios {
	return OperationRatios{f}
}

// ValuationRatios returns the valuation ratios view
func (f Fundamentals) ValuationRatios() ValuationRatios {
	return ValuationRatios{f}
}

// IncomeStatement exposes named income statement accessors
type IncomeStatement struct{ f Fundamentals }

func (s IncomeStatement) TotalRevenue(at time.Time) (float64, bool, error) {
	return s.f.currency(at, prefixIncome+"TotalRevenue")
}

func (s IncomeStatement) GrossProfit(at time.Time) (float64, bool, error) {
	return s.f.currency(at, prefixIncome+"GrossProfit")
}

func (s IncomeStatement) OperatingIncome(at time.Time) (float64, bool, error) {
	return s.f.currency(at, prefixIncome+"OperatingIncome")
}

func (s IncomeStatement) NetIncome(at time.Time) (float64, bool, error) {
	return s.f.currency(at, prefixIncome+"NetIncome")
}

func (s IncomeStatement) BasicEPS(at time.Time) (float64, bool, error) {
	return s.f.decimal(at, prefixIncome+"BasicEPS")
}

func (s IncomeStatement) DilutedEPS(at time.Time) (float64, bool, error) {
	return s.f.decimal(at, prefixIncome+"DilutedEPS")
}

func (s IncomeStatement) EBITDA(at time.Time) (float64, bool, error) {
	return s.f.currency(at, prefixIncome+"EBITDA")
}

// BalanceSheet exposes named balance sheet accessors
type BalanceSheet struct{ f Fundamentals }

func (s BalanceSheet) TotalAssets(at time.Time) (float64, bool, error) {
	return s.f.currency(at, prefixBalance+"TotalAssets")
}

func (s BalanceSheet) TotalLiabilities(at time.Time) (float64, bool, error) {
	return s.f.currency(at, prefixBalance+"TotalLiabilities")
}

func (s BalanceSheet) CashAndCashEquivalents(at time.Time) (float64, bool, error) {
	return s.f.currency(at, prefixBalance+"CashAndCashEquivalents")
}

func (s BalanceSheet) TotalDebt(at time.Time) (float64, bool, error) {
	return s.f.currency(at, prefixBalance+"TotalDebt")
}

func (s BalanceSheet) StockholdersEquity(at time.Time) (float64, bool, error) {
	return s.f.currency(at, prefixBalance+"StockholdersEquity")
}

func (s BalanceSheet) WorkingCapital(at time.Time) (float64, bool, error) {
	return s.f.currency(at, prefixBalance+"WorkingCapital")
}

// CashFlowStatement exposes named cash flow accessors
type CashFlowStatement struct{ f Fundamentals }

func (s CashFlowStatement) OperatingCashFlow(at time.Time) (float64, bool, error) {
	return s.f.currency(at, prefixCashFlow+"OperatingCashFlow")
}

func (s CashFlowStatement) CapitalExpenditure(at time.Time) (float64, bool, error) {
	return s.f.currency(at, prefixCashFlow+"CapitalExpenditure")
}

func (s CashFlowStatement) FreeCashFlow(at time.Time) (float64, bool, error) {
	return s.f.currency(at, prefixCashFlow+"FreeCashFlow")
}

func (s CashFlowStatement) CashDividendsPaid(at time.Time) (float64, bool, error) {
	return s.f.currency(at, prefixCashFlow+"CashDividendsPaid")
}

// OperationRatios exposes named operating ratio accessors
type OperationRatios struct{ f Fundamentals }

func (s OperationRatios) GrossMargin(at time.Time) (float64, bool, error) {
	return s.f.percent(at, prefixOperation+"GrossMargin")
}

func (s OperationRatios) OperatingMargin(at time.Time) (float64, bool, error) {
	return s.f.percent(at, prefixOperation+"OperatingMargin")
}

func (s OperationRatios) ROE(at time.Time) (float64, bool, error) {
	return s.f.percent(at, prefixOperation+"ROE")
}

func (s OperationRatios) CurrentRatio(at time.Time) (float64, bool, error) {
	return s.f.decimal(at, prefixOperation+"CurrentRatio")
}

func (s OperationRatios) DebtToEquity(at time.Time) (float64, bool, error) {
	return s.f.decimal(at, prefixOperation+"DebtToEquity")
}

// ValuationRatios exposes named valuation ratio accessors
type ValuationRatios struct{ f Fundamentals }

func (s ValuationRatios) PERatio(at time.Time) (float64, bool, error) {
	return s.f.decimal(at, prefixValuation+"PERatio")
}

func (s ValuationRatios) PBRatio(at time.Time) (float64, bool, error) {
	return s.f.decimal(at, prefixValuation+"PBRatio")
}

func (s ValuationRatios) PSRatio(at time.Time) (float64, bool, error) {
	return s.f.decimal(at, prefixValuation+"PSRatio")
}

func (s ValuationRatios) DividendYield(at time.Time) (float64, bool, error) {
	return s.f.percent(at, prefixValuation+"DividendYield")
}

func (s ValuationRatios) EVToEBITDA(at time.Time) (float64, bool, error) {
	return s.f.decimal(at, prefixValuation+"EVToEBITDA")
}
