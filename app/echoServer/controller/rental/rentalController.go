package rental

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"rentalhub/app/echoServer/httperr"
	rs "rentalhub/service/rental"
)

type Controller struct {
	Svc rs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /api/rentals/book/:assetId/customer/:customerId
//
// The body is optional; an absent or empty body means "start today, no
// note".
func (h *Controller) Create(c echo.Context) error {
	assetID, ok := parseParam(c, "assetId")
	if !ok {
		return httperr.JSON(c, http.StatusBadRequest, "invalid asset id")
	}
	customerID, ok := parseParam(c, "customerId")
	if !ok {
		return httperr.JSON(c, http.StatusBadRequest, "invalid customer id")
	}

	// Bind leaves req zero on an empty body and still decodes chunked
	// bodies, which carry no Content-Length
	var req CreateBookingReq
	if err := c.Bind(&req); err != nil {
		return httperr.JSON(c, http.StatusBadRequest, "invalid JSON")
	}
	if err := h.V.Struct(req); err != nil {
		return httperr.Validation(c, err)
	}

	b, err := h.Svc.RegisterBooking(c.Request().Context(), assetID, customerID, rs.BookingInput{
		StartDate: parseStartDate(req.StartDate),
		Note:      req.Note,
	})
	if err != nil {
		return h.mapErr(c, "booking create", err)
	}

	h.Log.Info("booking created", "booking_id", b.ID, "asset_id", b.AssetID, "customer_id", b.CustomerID)
	return c.JSON(http.StatusCreated, toDTO(*b))
}

// GET /api/rentals
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.ListBookings(c.Request().Context())
	if err != nil {
		h.Log.Error("booking list", "err", err)
		return httperr.JSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, toDTOs(rows))
}

// GET /api/rentals/:id
func (h *Controller) Get(c echo.Context) error {
	id, ok := parseParam(c, "id")
	if !ok {
		return httperr.JSON(c, http.StatusBadRequest, "invalid id")
	}
	b, err := h.Svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return h.mapErr(c, "booking get", err)
	}
	return c.JSON(http.StatusOK, toDTO(*b))
}

// PUT /api/rentals/return/:id
func (h *Controller) Return(c echo.Context) error {
	id, ok := parseParam(c, "id")
	if !ok {
		return httperr.JSON(c, http.StatusBadRequest, "invalid id")
	}
	b, err := h.Svc.CloseBooking(c.Request().Context(), id)
	if err != nil {
		return h.mapErr(c, "booking return", err)
	}

	h.Log.Info("booking closed", "booking_id", b.ID, "asset_id", b.AssetID)
	return c.JSON(http.StatusOK, toDTO(*b))
}

// DELETE /api/rentals/:id
func (h *Controller) Delete(c echo.Context) error {
	id, ok := parseParam(c, "id")
	if !ok {
		return httperr.JSON(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Svc.DeleteBooking(c.Request().Context(), id); err != nil {
		return h.mapErr(c, "booking delete", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /api/rentals/history/asset/:id
func (h *Controller) AssetHistory(c echo.Context) error {
	id, ok := parseParam(c, "id")
	if !ok {
		return httperr.JSON(c, http.StatusBadRequest, "invalid id")
	}
	rows, err := h.Svc.AssetHistory(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("asset history", "err", err)
		return httperr.JSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, toDTOs(rows))
}

// GET /api/rentals/history/customer/:id
func (h *Controller) CustomerHistory(c echo.Context) error {
	id, ok := parseParam(c, "id")
	if !ok {
		return httperr.JSON(c, http.StatusBadRequest, "invalid id")
	}
	rows, err := h.Svc.CustomerHistory(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("customer history", "err", err)
		return httperr.JSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, toDTOs(rows))
}

func (h *Controller) mapErr(c echo.Context, op string, err error) error {
	switch {
	case rs.Code(err) == rs.ErrInvalidInput:
		return httperr.JSON(c, http.StatusBadRequest, err.Error())
	case rs.IsNotFound(err):
		return httperr.JSON(c, http.StatusNotFound, err.Error())
	case rs.IsConflict(err):
		return httperr.JSON(c, http.StatusConflict, err.Error())
	default:
		h.Log.Error(op, "err", err)
		return httperr.JSON(c, http.StatusInternalServerError, "internal error")
	}
}

func parseParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}
