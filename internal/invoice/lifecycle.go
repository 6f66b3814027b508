package invoice

import (
	"time"

	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/pkg/errors"
)

// Invoice states
type State string

const (
	StateNone      State = "none"      // no invoice fields populated
	StateDraft     State = "draft"     // fields populated, not confirmed
	StateConfirmed State = "confirmed" // locked, customer-visible
)

var (
	ErrNoDraft          = errors.New("invoice: order has no invoice draft")
	ErrAlreadyConfirmed = errors.New("invoice: invoice already confirmed")
	ErrOrderNotApproved = errors.New("invoice: order is not approved")
)

// StateOf derives the lifecycle state from the order's invoice fields.
func StateOf(o *domain.Order) State {
	switch {
	case o.InvoiceConfirmed:
		return StateConfirmed
	case o.InvoiceNumber != "":
		return StateDraft
	default:
		return StateNone
	}
}

// CanEdit reports whether an admin may create or edit the invoice draft.
// Only approved (or completed) orders can carry an invoice, and a confirmed
// invoice is locked.
func CanEdit(o *domain.Order) error {
	if o.Status != domain.OrderApproved && o.Status != domain.OrderCompleted {
		return ErrOrderNotApproved
	}
	if o.InvoiceConfirmed {
		return ErrAlreadyConfirmed
	}
	return nil
}

// Confirm transitions a draft invoice to confirmed. One-way: there is no
// route back to draft.
func Confirm(o *domain.Order, now time.Time) error {
	switch StateOf(o) {
	case StateNone:
		return ErrNoDraft
	case StateConfirmed:
		return ErrAlreadyConfirmed
	}
	o.InvoiceConfirmed = true
	o.InvoiceConfirmedAt = &now
	return nil
}

// CanDownloadPDF gates the invoice PDF endpoint. Admins may always download;
// customers only once the invoice is confirmed.
func CanDownloadPDF(o *domain.Order, isAdmin bool) bool {
	if isAdmin {
		return StateOf(o) != StateNone
	}
	return StateOf(o) == StateConfirmed
}
