package modules

// Sales tracks orders and customer relationships.
type Sales struct {
	feature
}

// NewSales returns the sales module.
func NewSales() *Sales {
	return &Sales{feature{
		id:          "sales",
		name:        "Sales",
		description: "Track sales, orders, and customer relationships",
		icon:        "💰",
		order:       2,
		view:        "SalesView",
	}}
}
