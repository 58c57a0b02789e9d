package fmp

import (
	"fmt"
	"strconv"

	"github.com/seenimoa/fingateway/internal/provider"
	"github.com/seenimoa/fingateway/pkg/models"
	"github.com/seenimoa/fingateway/pkg/utils"
)

// statementPaths maps statement kinds to FMP endpoints. Statement endpoints
// are limited upstream to the periods the frontend shows.
var statementPaths = map[models.StatementKind]struct {
	endpoint string
	limited  bool
}{
	models.KindIncomeStatement: {"/income-statement/", true},
	models.KindBalanceSheet:    {"/balance-sheet-statement/", true},
	models.KindCashFlow:        {"/cash-flow-statement/", true},
	models.KindProfile:         {"/profile/", false},
}

// statementPath builds the request path (without API key) for kind.
func statementPath(kind models.StatementKind, ticker string) (string, error) {
	ep, ok := statementPaths[kind]
	if !ok {
		return "", &provider.ErrUnsupportedStatement{Provider: Name, Kind: kind}
	}
	symbol := utils.EscapeTicker(ticker)
	if symbol == "" {
		return "", fmt.Errorf("fmp %s: empty ticker", kind)
	}

	path := ep.endpoint + symbol
	if ep.limited {
		path += "?limit=" + strconv.Itoa(models.MaxPeriods)
	}
	return path, nil
}
