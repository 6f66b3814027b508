package domain

import "time"

// Order statuses
const (
	OrderPending   = "pending"
	OrderApproved  = "approved"
	OrderRejected  = "rejected"
	OrderCompleted = "completed"
)

// Discount types
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Order represents a customer purchase order. The invoice is not a separate
// entity: the Invoice* fields are populated when an admin first saves an
// invoice for an approved order, and locked from customer-visible changes
// once InvoiceConfirmed is set.
//
// TotalPrice always equals subtotal - discount + shipping + tax, recomputed
// through internal/pricing at every save.
type Order struct {
	ID         int64  `json:"id,string" form:"id"`                       // Primary key ID
	CustomerId int64  `gorm:"index" json:"customer_id,string" form:"customer_id"` // Owning customer
	Status     string `gorm:"size:20;index" json:"status" form:"status"` // pending|approved|rejected|completed

	Subtotal       float64 `json:"subtotal"`                                  // Sum of line totals
	DiscountType   string  `gorm:"size:20" json:"discount_type" form:"discount_type"` // percentage|fixed, empty when none
	DiscountValue  float64 `json:"discount_value" form:"discount_value"`      // Percent or fixed amount per DiscountType
	ShippingAmount float64 `json:"shipping_amount" form:"shipping_amount"`    // Flat shipping charge
	TaxRate        float64 `json:"tax_rate" form:"tax_rate"`                  // Decimal fraction, e.g. 0.13
	TaxAmount      float64 `json:"tax_amount"`                                // Tax on post-discount post-shipping amount
	TotalPrice     float64 `json:"total_price"`                               // Final total

	RejectReason  string `json:"reject_reason" form:"reject_reason"`
	RejectComment string `json:"reject_comment" form:"reject_comment"`

	InvoiceNumber      string     `gorm:"size:32;index" json:"invoice_number"` // e.g. #01210126
	PoNumber           string     `gorm:"size:32" json:"po_number"`            // Allocated by the same routine
	InvoiceDate        *time.Time `json:"invoice_date"`
	PaymentTerms       string     `gorm:"size:32" json:"payment_terms"` // CHQ|EMT|WIRE|NET n
	DueDate            string     `gorm:"size:16" json:"due_date"`      // yyyy-mm-dd
	InvoiceNotes       string     `gorm:"type:text" json:"invoice_notes"`
	InvoiceTerms       string     `gorm:"type:text" json:"invoice_terms"`
	InvoiceConfirmed   bool       `gorm:"default:false" json:"invoice_confirmed"`
	InvoiceConfirmedAt *time.Time `json:"invoice_confirmed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a snapshot of an inventory item at order time. Prices are
// copied, not referenced, so later inventory edits do not change past orders.
type OrderItem struct {
	ID         int64     `json:"id,string"`
	OrderId    int64     `gorm:"index" json:"order_id,string"`
	ItemId     int64     `gorm:"index" json:"item_id,string"`
	DeviceName string    `json:"device_name"`
	Brand      string    `json:"brand"`
	Grade      string    `gorm:"size:2" json:"grade"`
	Storage    string    `gorm:"size:32" json:"storage"`
	UnitPrice  float64   `json:"unit_price"`
	Qty        int       `json:"qty"`
	LineTotal  float64   `json:"line_total"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "order_item"
}
