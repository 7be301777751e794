package booking

import "github.com/BruksfildServices01/barbershop-booking/internal/models"

// Actor is the authenticated caller of a use case.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) IsStaff() bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleCashier
}

func (a Actor) IsCustomer() bool {
	return a.Role == models.RoleCustomer
}

// Ref returns the actor id as a nullable reference.
func (a Actor) Ref() *uint {
	if a.ID == 0 {
		return nil
	}
	id := a.ID
	return &id
}
