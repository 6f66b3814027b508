// Package invoice holds the invoice numbering allocator, the draft/confirmed
// lifecycle and the printable invoice document.
package invoice

import (
	"fmt"
	"time"

	"github.com/dev-harshpatel/stoq/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DateSuffixLayout encodes the order date into the number suffix (DDMMYY).
const DateSuffixLayout = "020106"

// Allocator hands out invoice and PO numbers of the form #NNDDMMYY where NN
// is a per-date sequence starting at 01. Allocation is a read-then-decide
// sequence with no uniqueness constraint: concurrent allocations for the
// same date can collide. Callers are expected to allocate from serialized
// admin actions.
type Allocator struct {
	db *gorm.DB
}

func NewAllocator(db *gorm.DB) *Allocator {
	return &Allocator{db: db}
}

// NextInvoiceNumber allocates the next invoice number for orderDate.
// On query failure it degrades to sequence 01 rather than propagating the
// error, trading correctness for availability.
func (a *Allocator) NextInvoiceNumber(orderDate time.Time) string {
	return a.next(orderDate, "invoice_number")
}

// NextPoNumber allocates a PO number using the identical routine. A PO
// number may therefore collide in value with the invoice number for the
// same order; that is the documented contract.
func (a *Allocator) NextPoNumber(orderDate time.Time) string {
	return a.next(orderDate, "po_number")
}

func (a *Allocator) next(orderDate time.Time, column string) string {
	suffix := orderDate.Format(DateSuffixLayout)
	seq := int64(1)

	var count int64
	err := a.db.Model(&domain.Order{}).
		Where(column+" LIKE ?", "%"+suffix).
		Count(&count).Error
	if err != nil {
		zap.L().Warn("number allocation query failed, defaulting to 01",
			zap.String("column", column),
			zap.String("suffix", suffix),
			zap.Error(err))
	} else {
		seq = count + 1
	}

	return fmt.Sprintf("#%02d%s", seq, suffix)
}
