package customer

import "rentalhub/model"

const dateLayout = "2006-01-02"

type CustomerReq struct {
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone"`
}

// bookingSummary is one embedded history row. It never carries the
// customer back, only the booking's own fields.
type bookingSummary struct {
	ID        int64   `json:"id"`
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate,omitempty"`
	Active    bool    `json:"active"`
}

type CustomerDTO struct {
	ID        int64            `json:"id"`
	FirstName string           `json:"firstName"`
	LastName  string           `json:"lastName"`
	Email     string           `json:"email"`
	Phone     *string          `json:"phone,omitempty"`
	Bookings  []bookingSummary `json:"bookings,omitempty"`
}

func toDTO(c model.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
	}
}

// toDTOWithBookings is used on single-customer responses; list
// responses stay flat.
func toDTOWithBookings(c model.Customer, bookings []model.Booking) CustomerDTO {
	dto := toDTO(c)
	dto.Bookings = toSummaries(bookings)
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

func toDTOs(cs []model.Customer) []CustomerDTO {
	out := make([]CustomerDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, toDTO(c))
	}
	return out
}
