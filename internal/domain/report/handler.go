package report

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medcoop/clinic/internal/platform/auth"
	"github.com/medcoop/clinic/internal/platform/view"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/reports", h.Reports, auth.RequireDoctor())
}

func (h *Handler) Reports(c echo.Context) error {
	date, err := h.svc.ParseDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rep, err := h.svc.Build(c.Request().Context(), date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to build reports").SetInternal(err)
	}
	return c.Render(http.StatusOK, "reports", view.Page{Title: "Reports", Data: rep})
}
