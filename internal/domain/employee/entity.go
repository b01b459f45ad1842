package employee

import (
	"time"
)

// Employee is the directory view of an employee: just enough identity for
// attendance tracking. Full employee administration lives elsewhere.
type Employee struct {
	ID          string
	CompanyID   string
	FullName    string
	Designation string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
