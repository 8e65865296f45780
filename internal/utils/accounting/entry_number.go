package accounting

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// entryNumberPrefixLen is the YYYYMM portion of an entry number.
	entryNumberPrefixLen = 6
	// entryNumberSequenceLen is the zero-padded sequence suffix width.
	entryNumberSequenceLen = 4
	// EntryNumberLen is the total length of a persisted entry number.
	EntryNumberLen = entryNumberPrefixLen + entryNumberSequenceLen

	maxSequence = 9999
)

// EntryNumberPrefix derives the YYYYMM prefix from an entry date. Numbering
// follows the posting month, not the creation time.
func EntryNumberPrefix(entryDate time.Time) string {
	return entryDate.Format("200601")
}

// NextEntryNumber returns the entry number that follows lastNumber within the
// given YYYYMM prefix. An empty lastNumber starts the sequence at 1.
func NextEntryNumber(prefix string, lastNumber string) (string, error) {
	if lastNumber == "" {
		return FormatEntryNumber(prefix, 1), nil
	}
	seq, err := SequenceOf(lastNumber)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(lastNumber, prefix) {
		return "", fmt.Errorf("entry number %q does not match prefix %q", lastNumber, prefix)
	}
	if seq >= maxSequence {
		return "", fmt.Errorf("entry number sequence exhausted for %s", prefix)
	}
	return FormatEntryNumber(prefix, seq+1), nil
}

// FormatEntryNumber renders a prefix and sequence as the persisted 10-character form.
func FormatEntryNumber(prefix string, sequence int) string {
	return fmt.Sprintf("%s%0*d", prefix, entryNumberSequenceLen, sequence)
}

// SequenceOf extracts the numeric sequence suffix of an entry number.
func SequenceOf(entryNumber string) (int, error) {
	if len(entryNumber) != EntryNumberLen {
		return 0, fmt.Errorf("malformed entry number %q: expected %d characters", entryNumber, EntryNumberLen)
	}
	seq, err := strconv.Atoi(entryNumber[entryNumberPrefixLen:])
	if err != nil {
		return 0, fmt.Errorf("malformed entry number %q: %w", entryNumber, err)
	}
	return seq, nil
}
