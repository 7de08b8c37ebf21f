package rental

import (
	"time"

	"rentalhub/model"
)

const dateLayout = "2006-01-02"

type CreateBookingReq struct {
	StartDate *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	Note      *string `json:"note"`
}

// BookingDTO references its asset and customer by id and name only,
// never the full nested objects.
type BookingDTO struct {
	ID           int64   `json:"id"`
	StartDate    string  `json:"startDate"`
	EndDate      *string `json:"endDate"`
	Active       bool    `json:"active"`
	Note         *string `json:"note,omitempty"`
	AssetID      int64   `json:"assetId"`
	AssetName    string  `json:"assetName"`
	CustomerID   int64   `json:"customerId"`
	CustomerName string  `json:"customerName"`
}

func toDTO(b model.Booking) BookingDTO {
	dto := BookingDTO{
		ID:           b.ID,
		StartDate:    b.StartDate.Format(dateLayout),
		Active:       b.Active,
		Note:         b.Note,
		AssetID:      b.AssetID,
		AssetName:    b.AssetName,
		CustomerID:   b.CustomerID,
		CustomerName: b.CustomerName,
	}
	if b.EndDate != nil {
		end := b.EndDate.Format(dateLayout)
		dto.EndDate = &end
	}
	return dto
}

func toDTOs(bs []model.Booking) []BookingDTO {
	out := make([]BookingDTO, 0, len(bs))
	for _, b := range bs {
		out = append(out, toDTO(b))
	}
	return out
}

func parseStartDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	// format already checked by the datetime validate tag
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}
