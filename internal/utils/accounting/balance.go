package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/sorahq/ledger-api/internal/core/domain"
)

// BalanceTolerance is the maximum absolute difference between total debits and
// total credits for an entry to still count as balanced. It absorbs legitimate
// rounding from decimal division (e.g. tax splits), not representation error.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// SumAmounts computes the total debit and total credit over the given lines.
func SumAmounts(lines []domain.JournalEntryLine) (totalDebit, totalCredit decimal.Decimal) {
	totalDebit = decimal.Zero
	totalCredit = decimal.Zero
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.DebitAmount)
		totalCredit = totalCredit.Add(line.CreditAmount)
	}
	return totalDebit, totalCredit
}

// IsBalanced reports whether total debits equal total credits within
// BalanceTolerance. An empty line set is never balanced; callers enforce the
// minimum-two-lines rule before invoking this.
func IsBalanced(lines []domain.JournalEntryLine) bool {
	if len(lines) == 0 {
		return false
	}
	totalDebit, totalCredit := SumAmounts(lines)
	return totalDebit.Sub(totalCredit).Abs().LessThan(BalanceTolerance)
}
