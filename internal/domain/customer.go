package domain

import "time"

// Customer statuses
const (
	CustomerPending   = "pending"
	CustomerApproved  = "approved"
	CustomerSuspended = "suspended"
)

// Customer represents a wholesale storefront account. New registrations stay
// in pending status until an admin approves them. Cart and Wishlist hold the
// server-side copy of the customer's saved items as JSON blobs, merged with
// any locally kept items at login time.
type Customer struct {
	ID        int64     `json:"id,string" form:"id"`
	Username  string    `gorm:"index" json:"username" form:"username"`
	Password  string    `json:"-" form:"password"`
	Realname  string    `json:"realname" form:"realname"`
	Email     string    `json:"email" form:"email"`
	Mobile    string    `json:"mobile" form:"mobile"`
	Company   string    `json:"company" form:"company"`
	TaxNumber string    `json:"tax_number" form:"tax_number"`
	Address   string    `json:"address" form:"address"`
	City      string    `json:"city" form:"city"`
	Country   string    `json:"country" form:"country"`
	Status    string    `gorm:"size:20;index" json:"status" form:"status"` // pending|approved|suspended
	Cart      string    `gorm:"type:text" json:"cart"`
	Wishlist  string    `gorm:"type:text" json:"wishlist"`
	Remark    string    `json:"remark" form:"remark"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Customer) TableName() string {
	return "customer"
}
