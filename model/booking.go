// model/booking.go
package model

import "time"

// Booking links exactly one asset to one customer. Active is true from
// creation until the asset is returned; EndDate stays nil while active.
// AssetName and CustomerName are denormalized from joins so callers never
// need the full nested objects.
type Booking struct {
	ID           int64
	AssetID      int64
	AssetName    string
	CustomerID   int64
	CustomerName string
	StartDate    time.Time
	EndDate      *time.Time
	Active       bool
	Note         *string
}
