package diagnosis

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

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
	g := e.Group("/diagnoses", auth.RequireDoctor())
	g.GET("", h.List)
	g.POST("", h.Create)
}

// PageData backs the diagnoses page. Name and Description echo a rejected
// submission back into the form.
type PageData struct {
	Diagnoses   []*Diagnosis
	Name        string
	Description string
}

func (h *Handler) List(c echo.Context) error {
	return h.render(c, PageData{}, "")
}

func (h *Handler) Create(c echo.Context) error {
	form := PageData{Name: c.FormValue("name"), Description: c.FormValue("description")}

	_, err := h.svc.Create(c.Request().Context(), form.Name, form.Description)
	switch {
	case err == nil:
		return c.Redirect(http.StatusFound, "/diagnoses")
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrDuplicate):
		return h.render(c, form, err.Error())
	default:
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("create diagnosis")
		return h.render(c, form, "failed to add diagnosis")
	}
}

// render re-reads the list so the page always shows the current catalogue.
func (h *Handler) render(c echo.Context, data PageData, msg string) error {
	list, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "database error").SetInternal(err)
	}
	data.Diagnoses = list
	return c.Render(http.StatusOK, "diagnoses", view.Page{Title: "Diagnoses", Error: msg, Data: data})
}
