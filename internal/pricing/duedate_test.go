package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDueDateOnReceiptTerms(t *testing.T) {
	invoiced := date(2026, time.March, 3)
	for _, terms := range []string{"CHQ", "EMT", "WIRE", "chq", " emt "} {
		assert.Equal(t, invoiced, DueDate(invoiced, terms), terms)
	}
}

func TestDueDateNetTerms(t *testing.T) {
	assert.Equal(t, date(2026, time.February, 5), DueDate(date(2026, time.January, 21), "NET 15"))
	assert.Equal(t, date(2026, time.April, 2), DueDate(date(2026, time.March, 3), "NET 30"))
	assert.Equal(t, date(2026, time.March, 3), DueDate(date(2026, time.March, 3), "NET 0"))
}

func TestDueDateUnknownTermsDefaultSameDay(t *testing.T) {
	invoiced := date(2026, time.March, 3)
	for _, terms := range []string{"", "COD", "NET", "NET X", "NET-30"} {
		assert.Equal(t, invoiced, DueDate(invoiced, terms), "terms=%q", terms)
	}
}

func TestDueDateString(t *testing.T) {
	assert.Equal(t, "2026-02-05", DueDateString(date(2026, time.January, 21), "NET 15"))
}
