package pricing

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Payment terms payable on receipt
const (
	TermsCheque = "CHQ"
	TermsEMT    = "EMT"
	TermsWire   = "WIRE"
)

const DueDateLayout = "2006-01-02"

var netTermsPattern = regexp.MustCompile(`^NET\s+(\d+)$`)

// DueDate resolves a payment-terms label against the invoice date.
// CHQ/EMT/WIRE are payable on receipt. "NET n" is due n days after the
// invoice date. Unrecognized labels fall back to same-day, by contract.
func DueDate(invoiceDate time.Time, terms string) time.Time {
	label := strings.ToUpper(strings.TrimSpace(terms))
	switch label {
	case TermsCheque, TermsEMT, TermsWire:
		return invoiceDate
	}
	if m := netTermsPattern.FindStringSubmatch(label); m != nil {
		days, err := strconv.Atoi(m[1])
		if err == nil {
			return invoiceDate.AddDate(0, 0, days)
		}
	}
	return invoiceDate
}

// DueDateString formats DueDate as yyyy-mm-dd for storage on the order.
func DueDateString(invoiceDate time.Time, terms string) string {
	return DueDate(invoiceDate, terms).Format(DueDateLayout)
}
