// model/customer.go
package model

// Customer rents assets. Email is unique (enforced both in the service
// and by a DB constraint). Phone is optional.
type Customer struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Phone     *string
}

// FullName is what booking rows show instead of embedding the customer.
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
