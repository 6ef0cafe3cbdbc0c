package identity

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medcoop/clinic/internal/platform/auth"
	"github.com/medcoop/clinic/internal/platform/view"
)

type Handler struct {
	svc      *Service
	sessions *auth.SessionManager
}

func NewHandler(svc *Service, sessions *auth.SessionManager) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

// RegisterRoutes mounts the public pages, the credential endpoints and the
// patient pages. credentialMW wraps only the POST /login and POST /register
// routes.
func (h *Handler) RegisterRoutes(e *echo.Echo, credentialMW ...echo.MiddlewareFunc) {
	e.GET("/", h.Home)
	e.GET("/login", h.LoginForm)
	e.POST("/login", h.Login, credentialMW...)
	e.GET("/register", h.RegisterForm)
	e.POST("/register", h.Register, credentialMW...)
	e.GET("/logout", h.Logout)

	g := e.Group("/patients", auth.RequireDoctor())
	g.GET("", h.ListPatients)
	g.GET("/new", h.NewPatientForm)
	g.POST("/new", h.CreatePatient)
}

// LoginData and RegisterData echo non-secret form values back on error.
type LoginData struct {
	Login string
}

type RegisterData struct {
	Login    string
	FullName string
}

func (h *Handler) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "home", view.Page{})
}

// -- Authentication --

func (h *Handler) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login", view.Page{Title: "Log in", Data: LoginData{}})
}

func (h *Handler) Login(c echo.Context) error {
	data := LoginData{Login: c.FormValue("login")}
	ctx := c.Request().Context()

	d, err := h.svc.Authenticate(ctx, data.Login, c.FormValue("password"))
	if err != nil {
		msg := ErrInvalidCredentials.Error()
		if !errors.Is(err, ErrInvalidCredentials) {
			zerolog.Ctx(ctx).Error().Err(err).Msg("login")
			msg = "database error"
		}
		return c.Render(http.StatusOK, "login", view.Page{Title: "Log in", Error: msg, Data: data})
	}

	if err := h.sessions.Issue(c, auth.Identity{DoctorID: d.ID, Login: d.Login, FullName: d.FullName}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to start session").SetInternal(err)
	}
	zerolog.Ctx(ctx).Info().Int64("doctor_id", d.ID).Msg("doctor logged in")
	return c.Redirect(http.StatusFound, "/exam")
}

func (h *Handler) RegisterForm(c echo.Context) error {
	return c.Render(http.StatusOK, "register", view.Page{Title: "Register", Data: RegisterData{}})
}

func (h *Handler) Register(c echo.Context) error {
	data := RegisterData{Login: c.FormValue("login"), FullName: c.FormValue("full_name")}
	ctx := c.Request().Context()

	_, err := h.svc.RegisterDoctor(ctx, data.Login, c.FormValue("password"), data.FullName)
	switch {
	case err == nil:
		return c.Redirect(http.StatusFound, "/login")
	case errors.Is(err, ErrFieldsRequired), errors.Is(err, ErrLoginExists):
		return c.Render(http.StatusOK, "register", view.Page{Title: "Register", Error: err.Error(), Data: data})
	default:
		zerolog.Ctx(ctx).Error().Err(err).Msg("register doctor")
		return c.Render(http.StatusOK, "register", view.Page{Title: "Register", Error: "registration failed", Data: data})
	}
}

func (h *Handler) Logout(c echo.Context) error {
	h.sessions.Clear(c)
	return c.Redirect(http.StatusFound, "/")
}

// -- Patients --

func (h *Handler) ListPatients(c echo.Context) error {
	patients, err := h.svc.ListPatients(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load patients").SetInternal(err)
	}
	return c.Render(http.StatusOK, "patients_list", view.Page{Title: "Patients", Data: patients})
}

func (h *Handler) NewPatientForm(c echo.Context) error {
	return c.Render(http.StatusOK, "patient_new", view.Page{Title: "New patient", Data: PatientInput{}})
}

func (h *Handler) CreatePatient(c echo.Context) error {
	in := PatientInput{
		FullName:    c.FormValue("full_name"),
		Gender:      c.FormValue("gender"),
		BirthDate:   c.FormValue("birth_date"),
		HomeAddress: c.FormValue("home_address"),
	}
	ctx := c.Request().Context()

	_, err := h.svc.CreatePatient(ctx, in)
	switch {
	case err == nil:
		return c.Redirect(http.StatusFound, "/patients")
	case errors.Is(err, ErrPatientNameRequired), errors.Is(err, ErrInvalidBirthDate):
		return c.Render(http.StatusOK, "patient_new", view.Page{Title: "New patient", Error: err.Error(), Data: in})
	default:
		zerolog.Ctx(ctx).Error().Err(err).Msg("create patient")
		return c.Render(http.StatusOK, "patient_new", view.Page{Title: "New patient", Error: "failed to add patient", Data: in})
	}
}
