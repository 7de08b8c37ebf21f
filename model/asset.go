// model/asset.go
package model

// Asset is a rentable piece of equipment. Available means no active
// booking currently references it; the rental service keeps the two in
// sync inside one transaction.
type Asset struct {
	ID        int64
	AssetName string
	Category  string
	DailyRate float64
	Available bool
}
