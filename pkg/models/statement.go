package models

import "fmt"

// StatementKind identifies one of the financial statements the gateway serves.
// The string value doubles as the route segment under /api/.
type StatementKind string

const (
	KindIncomeStatement StatementKind = "income-statement"
	KindBalanceSheet    StatementKind = "balance-sheet"
	KindCashFlow        StatementKind = "cash-flow"
	KindProfile         StatementKind = "profile"
)

// AllKinds lists every statement kind in route order.
func AllKinds() []StatementKind {
	return []StatementKind{
		KindIncomeStatement,
		KindBalanceSheet,
		KindCashFlow,
		KindProfile,
	}
}

// ParseStatementKind converts a route segment into a StatementKind.
func ParseStatementKind(s string) (StatementKind, error) {
	for _, k := range AllKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown statement kind %q", s)
}

func (k StatementKind) String() string { return string(k) }
