package modules

// Inventory tracks stock levels and warehouses.
type Inventory struct {
	feature
}

// NewInventory returns the inventory module.
func NewInventory() *Inventory {
	return &Inventory{feature{
		id:          "inventory",
		name:        "Inventory",
		description: "Manage your inventory, stock levels, and warehouses",
		icon:        "📦",
		order:       1,
		view:        "InventoryView",
	}}
}
