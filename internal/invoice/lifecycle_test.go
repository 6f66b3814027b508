package invoice

import (
	"testing"
	"time"

	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStateOf(t *testing.T) {
	o := &domain.Order{}
	assert.Equal(t, StateNone, StateOf(o))

	o.InvoiceNumber = "#01210126"
	assert.Equal(t, StateDraft, StateOf(o))

	o.InvoiceConfirmed = true
	assert.Equal(t, StateConfirmed, StateOf(o))
}

func TestCanEdit(t *testing.T) {
	o := &domain.Order{Status: domain.OrderPending}
	assert.ErrorIs(t, CanEdit(o), ErrOrderNotApproved)

	o.Status = domain.OrderApproved
	assert.NoError(t, CanEdit(o))

	// Repeated draft edits are allowed.
	o.InvoiceNumber = "#01210126"
	assert.NoError(t, CanEdit(o))

	o.InvoiceConfirmed = true
	assert.ErrorIs(t, CanEdit(o), ErrAlreadyConfirmed)
}

func TestConfirmIsOneWay(t *testing.T) {
	now := time.Date(2026, time.January, 21, 12, 0, 0, 0, time.UTC)

	o := &domain.Order{Status: domain.OrderApproved}
	assert.ErrorIs(t, Confirm(o, now), ErrNoDraft)

	o.InvoiceNumber = "#01210126"
	assert.NoError(t, Confirm(o, now))
	assert.True(t, o.InvoiceConfirmed)
	assert.Equal(t, now, *o.InvoiceConfirmedAt)

	assert.ErrorIs(t, Confirm(o, now.Add(time.Hour)), ErrAlreadyConfirmed)
	// Timestamp keeps the original confirmation time.
	assert.Equal(t, now, *o.InvoiceConfirmedAt)
}

func TestCanDownloadPDF(t *testing.T) {
	o := &domain.Order{}
	assert.False(t, CanDownloadPDF(o, false))
	assert.False(t, CanDownloadPDF(o, true)) // nothing to render yet

	o.InvoiceNumber = "#01210126"
	assert.False(t, CanDownloadPDF(o, false)) // draft hidden from customers
	assert.True(t, CanDownloadPDF(o, true))   // admins always may

	o.InvoiceConfirmed = true
	assert.True(t, CanDownloadPDF(o, false))
	assert.True(t, CanDownloadPDF(o, true))
}
