package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sorahq/ledger-api/internal/core/domain"
	"github.com/sorahq/ledger-api/internal/utils/accounting"
)

func line(debit, credit string) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		DebitAmount:  decimal.RequireFromString(debit),
		CreditAmount: decimal.RequireFromString(credit),
	}
}

func TestIsBalanced(t *testing.T) {
	tests := []struct {
		name  string
		lines []domain.JournalEntryLine
		want  bool
	}{
		{
			name:  "simple balanced pair",
			lines: []domain.JournalEntryLine{line("10000", "0"), line("0", "10000")},
			want:  true,
		},
		{
			name:  "unbalanced by half",
			lines: []domain.JournalEntryLine{line("10000", "0"), line("0", "5000")},
			want:  false,
		},
		{
			name: "balanced across multiple legs",
			lines: []domain.JournalEntryLine{
				line("600", "0"),
				line("400", "0"),
				line("0", "1000"),
			},
			want: true,
		},
		{
			name:  "sub-tolerance rounding difference",
			lines: []domain.JournalEntryLine{line("33.333", "0"), line("0", "33.334")},
			want:  true,
		},
		{
			name:  "exactly one cent off is not balanced",
			lines: []domain.JournalEntryLine{line("100.00", "0"), line("0", "100.01")},
			want:  false,
		},
		{
			name:  "empty line set",
			lines: nil,
			want:  false,
		},
		{
			name:  "mixed debit and credit on one line",
			lines: []domain.JournalEntryLine{line("50", "20"), line("0", "30")},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, accounting.IsBalanced(tt.lines))
		})
	}
}

func TestSumAmounts(t *testing.T) {
	lines := []domain.JournalEntryLine{
		line("100.50", "0"),
		line("0", "70.25"),
		line("0", "30.25"),
	}

	debit, credit := accounting.SumAmounts(lines)
	assert.True(t, debit.Equal(decimal.RequireFromString("100.50")), "debit sum was %s", debit)
	assert.True(t, credit.Equal(decimal.RequireFromString("100.50")), "credit sum was %s", credit)
}
