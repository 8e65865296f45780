package accounting_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorahq/ledger-api/internal/utils/accounting"
)

func TestEntryNumberPrefix(t *testing.T) {
	assert.Equal(t, "202403", accounting.EntryNumberPrefix(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "202412", accounting.EntryNumberPrefix(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "202501", accounting.EntryNumberPrefix(time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)))
}

func TestNextEntryNumber(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		last    string
		want    string
		wantErr bool
	}{
		{name: "first of the month", prefix: "202403", last: "", want: "2024030001"},
		{name: "increments sequence", prefix: "202403", last: "2024030007", want: "2024030008"},
		{name: "crosses into four digits", prefix: "202403", last: "2024030999", want: "2024031000"},
		{name: "sequence exhausted", prefix: "202403", last: "2024039999", wantErr: true},
		{name: "prefix mismatch", prefix: "202404", last: "2024030007", wantErr: true},
		{name: "malformed last number", prefix: "202403", last: "20240307", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.NextEntryNumber(tt.prefix, tt.last)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, accounting.EntryNumberLen)
		})
	}
}

func TestSequenceOf(t *testing.T) {
	seq, err := accounting.SequenceOf("2024030042")
	require.NoError(t, err)
	assert.Equal(t, 42, seq)

	_, err = accounting.SequenceOf("202403")
	assert.Error(t, err)

	_, err = accounting.SequenceOf("202403abcd")
	assert.Error(t, err)
}
