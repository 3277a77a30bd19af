package fundamental

// Statement path prefixes
const (
	prefixIncome    = "FinancialStatements.IncomeStatement."
	prefixBalance   = "FinancialStatements.BalanceSheet."
	prefixCashFlow  = "FinancialStatements.CashFlowStatement."
	prefixOperation = "OperationRatios."
	prefixValuation = "ValuationRatios."
	prefixMeta      = "FinancialStatements."
)

// builtinCatalog is the full field catalog. Codes are stable: income
// statement 1xxxx, balance sheet 2xxxx, cash flow 3xxxx, operation
// ratios 4xxxx, valuation ratios 5xxxx, statement metadata 6xxxx.
// Not every field applies to every industry; sparse series are the
// norm, not an error.
var builtinCatalog = []Field{
	// Income statement
	{10010, prefixIncome + "TotalRevenue", KindCurrency, "Total revenue for the period"},
	{10020, prefixIncome + "CostOfRevenue", KindCurrency, "Cost directly attributable to revenue"},
	{10030, prefixIncome + "GrossProfit", KindCurrency, "Revenue less cost of revenue"},
	{10040, prefixIncome + "OperatingExpense", KindCurrency, "Operating expenses excluding cost of revenue"},
	{10050, prefixIncome + "OperatingIncome", KindCurrency, "Income from operations"},
	{10060, prefixIncome + "SellingGeneralAndAdministration", KindCurrency, "SG&A expense"},
	{10070, prefixIncome + "ResearchAndDevelopment", KindCurrency, "R&D expense"},
	{10080, prefixIncome + "InterestExpense", KindCurrency, "Interest expense on debt"},
	{10090, prefixIncome + "PretaxIncome", KindCurrency, "Income before income taxes"},
	{10100, prefixIncome + "TaxProvision", KindCurrency, "Provision for income taxes"},
	{10110, prefixIncome + "NetIncome", KindCurrency, "Net income attributable to the parent"},
	{10120, prefixIncome + "NetIncomeCommonStockholders", KindCurrency, "Net income available to common stockholders"},
	{10130, prefixIncome + "BasicEPS", KindDecimal, "Basic earnings per share"},
	{10140, prefixIncome + "DilutedEPS", KindDecimal, "Diluted earnings per share"},
	{10150, prefixIncome + "BasicAverageShares", KindDecimal, "Weighted average basic shares outstanding"},
	{10160, prefixIncome + "DilutedAverageShares", KindDecimal, "Weighted average diluted shares outstanding"},
	{10170, prefixIncome + "EBIT", KindCurrency, "Earnings before interest and taxes"},
	{10180, prefixIncome + "EBITDA", KindCurrency, "Earnings before interest, taxes, depreciation and amortization"},
	{10190, prefixIncome + "DepreciationAndAmortization", KindCurrency, "Depreciation and amortization expense"},
	{10200, prefixIncome + "TotalExpenses", KindCurrency, "Total expenses for the period"},

	// Balance sheet
	{20010, prefixBalance + "TotalAssets", KindCurrency, "Total assets at period end"},
	{20020, prefixBalance + "CurrentAssets", KindCurrency, "Assets convertible to cash within one year"},
	{20030, prefixBalance + "CashAndCashEquivalents", KindCurrency, "Cash and cash equivalents"},
	{20040, prefixBalance + "Receivables", KindCurrency, "Trade and other receivables"},
	{20050, prefixBalance + "Inventory", KindCurrency, "Inventory at period end"},
	{20060, prefixBalance + "NetPPE", KindCurrency, "Property, plant and equipment, net"},
	{20070, prefixBalance + "Goodwill", KindCurrency, "Goodwill carrying amount"},
	{20080, prefixBalance + "TotalLiabilities", KindCurrency, "Total liabilities at period end"},
	{20090, prefixBalance + "CurrentLiabilities", KindCurrency, "Obligations due within one year"},
	{20100, prefixBalance + "AccountsPayable", KindCurrency, "Trade payables"},
	{20110, prefixBalance + "LongTermDebt", KindCurrency, "Debt due beyond one year"},
	{20120, prefixBalance + "CurrentDebt", KindCurrency, "Debt due within one year"},
	{20130, prefixBalance + "TotalDebt", KindCurrency, "Sum of current and long-term debt"},
	{20140, prefixBalance + "StockholdersEquity", KindCurrency, "Equity attributable to the parent"},
	{20150, prefixBalance + "RetainedEarnings", KindCurrency, "Accumulated retained earnings"},
	{20160, prefixBalance + "WorkingCapital", KindCurrency, "Current assets less current liabilities"},
	{20170, prefixBalance + "InvestedCapital", KindCurrency, "Equity plus debt less cash"},
	{20180, prefixBalance + "TangibleBookValue", KindCurrency, "Book value excluding intangibles"},
	{20190, prefixBalance + "ShareIssued", KindDecimal, "Shares issued at period end"},

	// Cash flow statement
	{30010, prefixCashFlow + "OperatingCashFlow", KindCurrency, "Net cash from operating activities"},
	{30020, prefixCashFlow + "InvestingCashFlow", KindCurrency, "Net cash from investing activities"},
	{30030, prefixCashFlow + "FinancingCashFlow", KindCurrency, "Net cash from financing activities"},
	{30040, prefixCashFlow + "CapitalExpenditure", KindCurrency, "Purchases of property, plant and equipment"},
	{30050, prefixCashFlow + "FreeCashFlow", KindCurrency, "Operating cash flow less capital expenditure"},
	{30060, prefixCashFlow + "CashDividendsPaid", KindCurrency, "Dividends paid in cash"},
	{30070, prefixCashFlow + "RepurchaseOfCapitalStock", KindCurrency, "Share buybacks"},
	{30080, prefixCashFlow + "IssuanceOfDebt", KindCurrency, "Proceeds from debt issuance"},
	{30090, prefixCashFlow + "RepaymentOfDebt", KindCurrency, "Debt principal repayments"},
	{30100, prefixCashFlow + "ChangesInCash", KindCurrency, "Net change in cash for the period"},

	// Operation ratios
	{40010, prefixOperation + "GrossMargin", KindPercent, "Gross profit over revenue"},
	{40020, prefixOperation + "OperatingMargin", KindPercent, "Operating income over revenue"},
	{40030, prefixOperation + "NetMargin", KindPercent, "Net income over revenue"},
	{40040, prefixOperation + "EBITDAMargin", KindPercent, "EBITDA over revenue"},
	{40050, prefixOperation + "ROE", KindPercent, "Return on equity"},
	{40060, prefixOperation + "ROA", KindPercent, "Return on assets"},
	{40070, prefixOperation + "ROIC", KindPercent, "Return on invested capital"},
	{40080, prefixOperation + "CurrentRatio", KindDecimal, "Current assets over current liabilities"},
	{40090, prefixOperation + "QuickRatio", KindDecimal, "Liquid assets over current liabilities"},
	{40100, prefixOperation + "DebtToEquity", KindDecimal, "Total debt over stockholders equity"},
	{40110, prefixOperation + "InterestCoverage", KindDecimal, "EBIT over interest expense"},
	{40120, prefixOperation + "AssetTurnover", KindDecimal, "Revenue over average total assets"},
	{40130, prefixOperation + "InventoryTurnover", KindDecimal, "Cost of revenue over average inventory"},
	{40140, prefixOperation + "RevenueGrowth", KindPercent, "Revenue growth versus the prior-year period"},

	// Valuation ratios
	{50010, prefixValuation + "PERatio", KindDecimal, "Price over trailing earnings per share"},
	{50020, prefixValuation + "ForwardPERatio", KindDecimal, "Price over forecast earnings per share"},
	{50030, prefixValuation + "PBRatio", KindDecimal, "Price over book value per share"},
	{50040, prefixValuation + "PSRatio", KindDecimal, "Price over revenue per share"},
	{50050, prefixValuation + "PEGRatio", KindDecimal, "PE ratio over earnings growth rate"},
	{50060, prefixValuation + "EVToEBITDA", KindDecimal, "Enterprise value over EBITDA"},
	{50070, prefixValuation + "EVToRevenue", KindDecimal, "Enterprise value over revenue"},
	{50080, prefixValuation + "DividendYield", KindPercent, "Annual dividends over price"},
	{50090, prefixValuation + "PayoutRatio", KindPercent, "Dividends over net income"},
	{50100, prefixValuation + "BookValuePerShare", KindDecimal, "Stockholders equity per share"},
	{50110, prefixValuation + "EarningsYield", KindPercent, "Earnings per share over price"},
	{50120, prefixValuation + "FCFYield", KindPercent, "Free cash flow per share over price"},

	// Statement metadata
	{60010, prefixMeta + "PeriodEndingDate", KindDate, "End date of the fiscal period the statement covers"},
	{60020, prefixMeta + "FileDate", KindDate, "Date the statement was filed with the regulator"},
	{60030, prefixMeta + "AccountingStandard", KindEnum, "Accounting standard: US-GAAP or IFRS"},
	{60040, prefixMeta + "PeriodType", KindEnum, "Reporting period type: 3M, 6M, 12M or TTM"},
	{60050, prefixMeta + "FormType", KindEnum, "Regulatory form type, e.g. 10-Q or 10-K"},
}
