package modules

// HR covers employee management, payroll and benefits.
type HR struct {
	feature
}

// NewHR returns the human resources module.
func NewHR() *HR {
	return &HR{feature{
		id:          "hr",
		name:        "Human Resources",
		description: "Employee management, payroll, and benefits",
		icon:        "👥",
		order:       4,
		view:        "HRView",
	}}
}
