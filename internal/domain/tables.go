package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	// Storefront
	&Customer{},
	// Inventory
	&InventoryItem{},
	// Orders
	&Order{},
	&OrderItem{},
}
