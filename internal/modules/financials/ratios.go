package financials

import "math"

// Ratio functions are total: they never panic and represent an undefined
// result (zero or NaN denominator) as nil. Presentation renders nil as
// "-".

func safeDiv(num, den float64) *float64 {
	if den == 0 || math.IsNaN(den) || math.IsNaN(num) {
		return nil
	}
	v := num / den
	return &v
}

// EPS is net income per share.
func EPS(netIncome, totalShares float64) *float64 {
	return safeDiv(netIncome, totalShares)
}

// BookValuePerShare is total equity per share, zero when shares are
// unknown.
func BookValuePerShare(totalEquity, totalShares float64) float64 {
	if totalShares > 0 {
		return totalEquity / totalShares
	}
	return 0
}

// PBR is price over book value per share.
func PBR(price, bookValuePerShare float64) *float64 {
	return safeDiv(price, bookValuePerShare)
}

// ROA is net income over total assets, in percent.
func ROA(netIncome, totalAssets float64) *float64 {
	return scale(safeDiv(netIncome, totalAssets), 100)
}

// ROE is net income over total equity, in percent.
func ROE(netIncome, totalEquity float64) *float64 {
	return scale(safeDiv(netIncome, totalEquity), 100)
}

// EnterpriseValue is marketCap + totalDebt - cash when all three inputs
// are supplied, zero otherwise.
func EnterpriseValue(marketCap, totalDebt, cash *float64) float64 {
	if marketCap == nil || totalDebt == nil || cash == nil {
		return 0
	}
	return *marketCap + *totalDebt - *cash
}

// EVToEBITDA is enterprise value over EBITDA, defined only for a positive
// EBITDA.
func EVToEBITDA(enterpriseValue, ebitda float64) *float64 {
	if ebitda <= 0 || math.IsNaN(ebitda) {
		return nil
	}
	return safeDiv(enterpriseValue, ebitda)
}

// OperatingMargin is operating profit over revenue, in percent.
func OperatingMargin(operatingProfit, revenue float64) *float64 {
	return scale(safeDiv(operatingProfit, revenue), 100)
}

// DebtRatio is total debt over total equity, in percent.
func DebtRatio(totalDebt, totalEquity float64) *float64 {
	return scale(safeDiv(totalDebt, totalEquity), 100)
}

// CurrentRatio is current assets over current liabilities, in percent.
// This is a proxy: the quote source reports the quick ratio under the
// same heading.
func CurrentRatio(currentAssets, currentLiabilities float64) *float64 {
	return scale(safeDiv(currentAssets, currentLiabilities), 100)
}

func scale(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	scaled := *v * factor
	return &scaled
}
