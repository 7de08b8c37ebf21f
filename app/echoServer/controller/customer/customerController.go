package customer

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

// GET /api/customers
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.ListCustomers(c.Request().Context())
	if err != nil {
		h.Log.Error("customer list", "err", err)
		return httperr.JSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, toDTOs(rows))
}

// POST /api/customers
func (h *Controller) Create(c echo.Context) error {
	var req CustomerReq
	if err := c.Bind(&req); err != nil {
		return httperr.JSON(c, http.StatusBadRequest, "invalid JSON")
	}
	if err := h.V.Struct(req); err != nil {
		return httperr.Validation(c, err)
	}

	cu, err := h.Svc.AddCustomer(c.Request().Context(), rs.CustomerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		return h.mapErr(c, "customer create", err)
	}
	return c.JSON(http.StatusCreated, toDTO(*cu))
}

// PUT /api/customers/:id
func (h *Controller) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return httperr.JSON(c, http.StatusBadRequest, "invalid id")
	}
	var req CustomerReq
	if err := c.Bind(&req); err != nil {
		return httperr.JSON(c, http.StatusBadRequest, "invalid JSON")
	}
	if err := h.V.Struct(req); err != nil {
		return httperr.Validation(c, err)
	}

	cu, err := h.Svc.UpdateCustomer(c.Request().Context(), id, rs.CustomerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		return h.mapErr(c, "customer update", err)
	}
	hist, err := h.Svc.CustomerHistory(c.Request().Context(), id)
	if err != nil {
		return h.mapErr(c, "customer update history", err)
	}
	return c.JSON(http.StatusOK, toDTOWithBookings(*cu, hist))
}

// DELETE /api/customers/:id
func (h *Controller) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return httperr.JSON(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Svc.DeleteCustomer(c.Request().Context(), id); err != nil {
		return h.mapErr(c, "customer delete", err)
	}
	return c.NoContent(http.StatusNoContent)
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

func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}
