package entity

import "time"

// Customer representa un cliente del propietario.
type Customer struct {
	ID        string
	OwnerID   string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
