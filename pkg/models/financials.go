package models

// MaxPeriods is the number of most recent fiscal periods served per statement.
const MaxPeriods = 5

// DefaultProfilePrice is served when the upstream gives no usable price.
const DefaultProfilePrice = 150.0

// IncomeStatementRecord is one fiscal period of the canonical income statement.
type IncomeStatementRecord struct {
	Date                                    string `json:"date"` // fiscal period end, YYYY-MM-DD
	Revenue                                 int64  `json:"revenue"`
	CostOfRevenue                           int64  `json:"costOfRevenue"`
	GrossProfit                             int64  `json:"grossProfit"`
	OperatingExpenses                       int64  `json:"operatingExpenses"`
	EBITDA                                  int64  `json:"ebitda"`
	ResearchAndDevelopmentExpenses          int64  `json:"researchAndDevelopmentExpenses"`
	SellingGeneralAndAdministrativeExpenses int64  `json:"sellingGeneralAndAdministrativeExpenses"`
	DepreciationAndAmortization             int64  `json:"depreciationAndAmortization"`
	NetIncome                               int64  `json:"netIncome"`
}

// BalanceSheetRecord is one fiscal period of the canonical balance sheet.
type BalanceSheetRecord struct {
	Date                    string `json:"date"`
	TotalCurrentAssets      int64  `json:"totalCurrentAssets"`
	TotalCurrentLiabilities int64  `json:"totalCurrentLiabilities"`
	TotalAssets             int64  `json:"totalAssets"`
	TotalLiabilities        int64  `json:"totalLiabilities"`
}

// CashFlowRecord is one fiscal period of the canonical cash flow statement.
type CashFlowRecord struct {
	Date               string `json:"date"`
	OperatingCashFlow  int64  `json:"operatingCashFlow"`
	CapitalExpenditure int64  `json:"capitalExpenditure"`
	FreeCashFlow       int64  `json:"freeCashFlow"`
}

// NewCashFlowRecord builds a record and derives FreeCashFlow.
// Capital expenditure is subtracted by magnitude, whatever sign the source uses.
func NewCashFlowRecord(date string, operating, capex int64) CashFlowRecord {
	abs := capex
	if abs < 0 {
		abs = -abs
	}
	return CashFlowRecord{
		Date:               date,
		OperatingCashFlow:  operating,
		CapitalExpenditure: capex,
		FreeCashFlow:       operating - abs,
	}
}

// CompanyProfileRecord is the canonical company profile.
// It is always served wrapped in a single-element array.
type CompanyProfileRecord struct {
	CompanyName string  `json:"companyName"`
	Price       float64 `json:"price"`
	Industry    string  `json:"industry"`
	Sector      string  `json:"sector"`
	MktCap      int64   `json:"mktCap"`
}
