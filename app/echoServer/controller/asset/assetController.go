package asset

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

// GET /api/assets
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.ListAssets(c.Request().Context())
	if err != nil {
		h.Log.Error("asset list", "err", err)
		return httperr.JSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, toDTOs(rows))
}

// GET /api/assets/available
func (h *Controller) ListAvailable(c echo.Context) error {
	rows, err := h.Svc.ListAvailableAssets(c.Request().Context())
	if err != nil {
		h.Log.Error("asset list available", "err", err)
		return httperr.JSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, toDTOs(rows))
}

// POST /api/assets
func (h *Controller) Create(c echo.Context) error {
	var req AssetReq
	if err := c.Bind(&req); err != nil {
		return httperr.JSON(c, http.StatusBadRequest, "invalid JSON")
	}
	if err := h.V.Struct(req); err != nil {
		return httperr.Validation(c, err)
	}

	a, err := h.Svc.AddAsset(c.Request().Context(), rs.AssetInput{
		AssetName: req.AssetName,
		Category:  req.Category,
		DailyRate: req.DailyRate,
	})
	if err != nil {
		return h.mapErr(c, "asset create", err)
	}
	return c.JSON(http.StatusCreated, toDTO(*a))
}

// PUT /api/assets/:id
func (h *Controller) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return httperr.JSON(c, http.StatusBadRequest, "invalid id")
	}
	var req AssetReq
	if err := c.Bind(&req); err != nil {
		return httperr.JSON(c, http.StatusBadRequest, "invalid JSON")
	}
	if err := h.V.Struct(req); err != nil {
		return httperr.Validation(c, err)
	}

	a, err := h.Svc.UpdateAsset(c.Request().Context(), id, rs.AssetInput{
		AssetName: req.AssetName,
		Category:  req.Category,
		DailyRate: req.DailyRate,
		Available: req.Available,
	})
	if err != nil {
		return h.mapErr(c, "asset update", err)
	}
	hist, err := h.Svc.AssetHistory(c.Request().Context(), id)
	if err != nil {
		return h.mapErr(c, "asset update history", err)
	}
	return c.JSON(http.StatusOK, toDTOWithHistory(*a, hist))
}

// DELETE /api/assets/:id
func (h *Controller) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return httperr.JSON(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Svc.DeleteAsset(c.Request().Context(), id); err != nil {
		return h.mapErr(c, "asset delete", err)
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
