package payroll

const (
	CategoryOffice     = "Office"
	CategoryField      = "Field"
	CategoryTechnical  = "Technical"
	CategoryManagerial = "Managerial"
	CategoryCreative   = "Creative"
)

var Categories = []string{
	CategoryOffice,
	CategoryField,
	CategoryTechnical,
	CategoryManagerial,
	CategoryCreative,
}

// WorkType is a catalog entry. The salary strategy is stored flattened as
// StrategyKind plus BonusPercent and reconstructed on demand; see strategy.go.
type WorkType struct {
	ID           int64   `json:"id"`
	Category     string  `json:"type"`
	Description  string  `json:"description"`
	HourlyRate   float64 `json:"hourlyRate"`
	StrategyKind string  `json:"strategyKind"`
	BonusPercent float64 `json:"bonusPercent"`
}

// CompletedWork links an employee to a work type for a number of hours.
// WorkType is the resolved catalog entry; it is nil until loaded.
type CompletedWork struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employeeId"`
	WorkTypeID int64     `json:"workTypeId"`
	Hours      float64   `json:"hours"`
	WorkType   *WorkType `json:"workType,omitempty"`
}

// Cost is derived, never stored. A completed work with no resolved
// work type costs nothing.
func (cw CompletedWork) Cost() float64 {
	return WorkCost(cw.WorkType, cw.Hours)
}

type Employee struct {
	ID             int64           `json:"id"`
	LastName       string          `json:"lastName"`
	FirstName      string          `json:"firstName"`
	Position       string          `json:"position"`
	CompletedWorks []CompletedWork `json:"completedWorks,omitempty"`
}

func (e Employee) TotalSalary() float64 {
	var total float64
	for _, cw := range e.CompletedWorks {
		total += cw.Cost()
	}
	return total
}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Summary is the aggregate view shown on the main screen: total payments
// across all employees and the average hourly rate across the catalog.
type Summary struct {
	TotalPayments  float64 `json:"totalPayments"`
	AverageRate    float64 `json:"averageRate"`
	EmployeeCount  int     `json:"employeeCount"`
	WorkTypeCount  int     `json:"workTypeCount"`
	CompletedCount int     `json:"completedWorkCount"`
}

// ImportReport is user feedback for a merge, not an error channel.
type ImportReport struct {
	NewEmployees      int `json:"newEmployees"`
	NewWorkTypes      int `json:"newWorkTypes"`
	NewCompletedWorks int `json:"newCompletedWorks"`
}
