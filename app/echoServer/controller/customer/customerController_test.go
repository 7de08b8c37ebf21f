package customer

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"rentalhub/model"
	rs "rentalhub/service/rental"
)

type svcMock struct {
	rs.Service
	updateFn  func(ctx context.Context, id int64, in rs.CustomerInput) (*model.Customer, error)
	historyFn func(ctx context.Context, customerID int64) ([]model.Booking, error)
}

func (m *svcMock) UpdateCustomer(ctx context.Context, id int64, in rs.CustomerInput) (*model.Customer, error) {
	return m.updateFn(ctx, id, in)
}
func (m *svcMock) CustomerHistory(ctx context.Context, customerID int64) ([]model.Booking, error) {
	return m.historyFn(ctx, customerID)
}

func TestUpdate_EmbedsBookings(t *testing.T) {
	m := &svcMock{
		updateFn: func(ctx context.Context, id int64, in rs.CustomerInput) (*model.Customer, error) {
			return &model.Customer{ID: id, FirstName: in.FirstName, LastName: in.LastName, Email: in.Email}, nil
		},
		historyFn: func(ctx context.Context, customerID int64) ([]model.Booking, error) {
			require.Equal(t, int64(3), customerID)
			return []model.Booking{
				{ID: 9, CustomerID: 3, StartDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Active: true},
			}, nil
		},
	}
	h := &Controller{Svc: m, V: validator.New(), Log: slog.Default()}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/customers/3",
		strings.NewReader(`{"firstName":"Anna","lastName":"Lindqvist","email":"a@example.com"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("3")

	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var dto CustomerDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	require.Equal(t, int64(3), dto.ID)
	require.Len(t, dto.Bookings, 1)
	require.Equal(t, int64(9), dto.Bookings[0].ID)
	require.True(t, dto.Bookings[0].Active)
	require.Nil(t, dto.Bookings[0].EndDate)
}
