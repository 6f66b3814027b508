package domain

import "time"

// InventoryItem represents a wholesale device SKU in stock. Items are created
// by bulk upload or manual entry and never hard-deleted from visible flows;
// Archived hides an item from the storefront catalog instead.
type InventoryItem struct {
	ID            int64      `json:"id,string" form:"id"`                     // Primary key ID
	DeviceName    string     `gorm:"index" json:"device_name" form:"device_name"` // Device model name
	Brand         string     `gorm:"index" json:"brand" form:"brand"`         // Manufacturer brand
	Grade         string     `gorm:"size:2;index" json:"grade" form:"grade"`  // Cosmetic grade A-D
	Storage       string     `gorm:"size:32" json:"storage" form:"storage"`   // Storage variant, e.g. 128GB
	Qty           int        `json:"qty" form:"qty"`                          // On-hand quantity
	UnitCost      float64    `json:"unit_cost" form:"unit_cost"`              // Landed unit cost
	PurchasePrice *float64   `json:"purchase_price,omitempty" form:"purchase_price"` // Optional purchase price
	HstPercent    *float64   `json:"hst_percent,omitempty" form:"hst_percent"` // Optional per-item HST override (percent)
	SellingPrice  float64    `json:"selling_price" form:"selling_price"`      // Storefront selling price
	Archived      bool       `gorm:"index;default:false" json:"archived"`     // Hidden from storefront when set
	LastUpdated   *time.Time `json:"last_updated"`                            // Last manual stock adjustment
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (InventoryItem) TableName() string {
	return "inventory_item"
}
