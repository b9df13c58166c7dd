package modules

// Accounting covers financial management and reporting.
type Accounting struct {
	feature
}

// NewAccounting returns the accounting module.
func NewAccounting() *Accounting {
	return &Accounting{feature{
		id:          "accounting",
		name:        "Accounting",
		description: "Financial management and reporting",
		icon:        "📊",
		order:       3,
		view:        "AccountingView",
	}}
}
