package alphavantage

import (
	"github.com/tidwall/gjson"

	"github.com/seenimoa/fingateway/internal/provider"
	"github.com/seenimoa/fingateway/pkg/models"
	"github.com/seenimoa/fingateway/pkg/utils"
)

// Normalize dispatches a classified-good document to the mapper for kind.
// Missing or malformed fields default; nothing here fails a request.
func Normalize(kind models.StatementKind, raw []byte) (any, error) {
	doc := gjson.ParseBytes(raw)
	switch kind {
	case models.KindIncomeStatement:
		return IncomeStatements(doc), nil
	case models.KindBalanceSheet:
		return BalanceSheets(doc), nil
	case models.KindCashFlow:
		return CashFlows(doc), nil
	case models.KindProfile:
		return Profile(doc), nil
	}
	return nil, &provider.ErrUnsupportedStatement{Provider: Name, Kind: kind}
}

// annualReports returns at most models.MaxPeriods reports in upstream order.
func annualReports(doc gjson.Result) []gjson.Result {
	reports := doc.Get("annualReports")
	if !reports.IsArray() {
		return nil
	}
	all := reports.Array()
	if len(all) > models.MaxPeriods {
		all = all[:models.MaxPeriods]
	}
	return all
}

// IncomeStatements maps annualReports of an INCOME_STATEMENT document.
//
// Alpha Vantage has no SG&A total; sellingAndMarketingExpenses stands in for
// it and understates the figure.
func IncomeStatements(doc gjson.Result) []models.IncomeStatementRecord {
	reports := annualReports(doc)
	out := make([]models.IncomeStatementRecord, 0, len(reports))
	for _, r := range reports {
		out = append(out, models.IncomeStatementRecord{
			Date:                                    utils.StringOrEmpty(r.Get("fiscalDateEnding")),
			Revenue:                                 utils.IntOrZero(r.Get("totalRevenue")),
			CostOfRevenue:                           utils.IntOrZero(r.Get("costOfRevenue")),
			GrossProfit:                             utils.IntOrZero(r.Get("grossProfit")),
			OperatingExpenses:                       utils.IntOrZero(r.Get("operatingExpenses")),
			EBITDA:                                  utils.IntOrZero(r.Get("ebitda")),
			ResearchAndDevelopmentExpenses:          utils.IntOrZero(r.Get("researchAndDevelopment")),
			SellingGeneralAndAdministrativeExpenses: utils.IntOrZero(r.Get("sellingAndMarketingExpenses")),
			DepreciationAndAmortization:             utils.IntOrZero(r.Get("depreciationAndAmortization")),
			NetIncome:                               utils.IntOrZero(r.Get("netIncome")),
		})
	}
	return out
}

// BalanceSheets maps annualReports of a BALANCE_SHEET document.
func BalanceSheets(doc gjson.Result) []models.BalanceSheetRecord {
	reports := annualReports(doc)
	out := make([]models.BalanceSheetRecord, 0, len(reports))
	for _, r := range reports {
		out = append(out, models.BalanceSheetRecord{
			Date:                    utils.StringOrEmpty(r.Get("fiscalDateEnding")),
			TotalCurrentAssets:      utils.IntOrZero(r.Get("totalCurrentAssets")),
			TotalCurrentLiabilities: utils.IntOrZero(r.Get("totalCurrentLiabilities")),
			TotalAssets:             utils.IntOrZero(r.Get("totalAssets")),
			TotalLiabilities:        utils.IntOrZero(r.Get("totalLiabilities")),
		})
	}
	return out
}

// CashFlows maps annualReports of a CASH_FLOW document and derives free
// cash flow.
func CashFlows(doc gjson.Result) []models.CashFlowRecord {
	reports := annualReports(doc)
	out := make([]models.CashFlowRecord, 0, len(reports))
	for _, r := range reports {
		out = append(out, models.NewCashFlowRecord(
			utils.StringOrEmpty(r.Get("fiscalDateEnding")),
			utils.IntOrZero(r.Get("operatingCashflow")),
			utils.IntOrZero(r.Get("capitalExpenditures")),
		))
	}
	return out
}

// Profile maps an OVERVIEW document. The overview has no quote, so the
// 50-day moving average stands in for price.
func Profile(doc gjson.Result) []models.CompanyProfileRecord {
	return []models.CompanyProfileRecord{{
		CompanyName: utils.StringOrEmpty(doc.Get("Name")),
		Price:       utils.FloatOr(doc.Get("50DayMovingAverage"), models.DefaultProfilePrice),
		Industry:    utils.StringOrEmpty(doc.Get("Industry")),
		Sector:      utils.StringOrEmpty(doc.Get("Sector")),
		MktCap:      utils.IntOrZero(doc.Get("MarketCapitalization")),
	}}
}
