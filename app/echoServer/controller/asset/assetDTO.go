package asset

import "rentalhub/model"

const dateLayout = "2006-01-02"

type AssetReq struct {
	AssetName string  `json:"assetName" validate:"required,min=2,max=100"`
	Category  string  `json:"category" validate:"required"`
	DailyRate float64 `json:"dailyRate" validate:"required,gt=0"`
	Available bool    `json:"available"`
}

// bookingSummary is one embedded history row. It never carries the
// asset back, only the booking's own fields.
type bookingSummary struct {
	ID        int64   `json:"id"`
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate,omitempty"`
	Active    bool    `json:"active"`
}

type AssetDTO struct {
	ID             int64            `json:"id"`
	AssetName      string           `json:"assetName"`
	Category       string           `json:"category"`
	DailyRate      float64          `json:"dailyRate"`
	Available      bool             `json:"available"`
	BookingHistory []bookingSummary `json:"bookingHistory,omitempty"`
}

func toDTO(a model.Asset) AssetDTO {
	return AssetDTO{
		ID:        a.ID,
		AssetName: a.AssetName,
		Category:  a.Category,
		DailyRate: a.DailyRate,
		Available: a.Available,
	}
}

// toDTOWithHistory is used on single-asset responses; list responses
// stay flat.
func toDTOWithHistory(a model.Asset, history []model.Booking) AssetDTO {
	dto := toDTO(a)
	dto.BookingHistory = toSummaries(history)
	return dto
}

func toSummaries(bs []model.Booking) []bookingSummary {
	out := make([]bookingSummary, 0, len(bs))
	for _, b := range bs {
		s := bookingSummary{
			ID:        b.ID,
			StartDate: b.StartDate.Format(dateLayout),
			Active:    b.Active,
		}
		if b.EndDate != nil {
			end := b.EndDate.Format(dateLayout)
			s.EndDate = &end
		}
		out = append(out, s)
	}
	return out
}

func toDTOs(as []model.Asset) []AssetDTO {
	out := make([]AssetDTO, 0, len(as))
	for _, a := range as {
		out = append(out, toDTO(a))
	}
	return out
}
