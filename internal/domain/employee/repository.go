package employee

import "context"

// EmployeeRepository resolves employee identities. The company parameter
// scopes every lookup to the caller's tenant.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
}
