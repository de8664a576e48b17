package auth

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/hlog"
)

var validate = validator.New()

type (
	Router struct {
		service *Service
	}
)

func NewRouter(service *Service) *Router {
	return &Router{service: service}
}

func (r *Router) LoginPage(w http.ResponseWriter, req *http.Request) {
	r.renderPage(w, req, "templates/login.html")
}

func (r *Router) RegisterPage(w http.ResponseWriter, req *http.Request) {
	r.renderPage(w, req, "templates/register.html")
}

// HandleLogin processes the login form. Empty fields never reach the API.
func (r *Router) HandleLogin(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	creds := Credentials{
		Email:    req.FormValue("email"),
		Password: req.FormValue("password"),
	}
	if err := validate.Struct(creds); err != nil {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `<div id="error" class="error">Please fill in all fields</div>`)
		return
	}

	_, err := r.service.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		logger.Warn().Err(err).Str("email", creds.Email).Msg("Login failed")
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprintf(w, `<div id="error" class="error">%s</div>`, template.HTMLEscapeString(err.Error()))
		return
	}

	logger.Debug().Str("email", creds.Email).Msg("Login successful")
	w.Header().Set("HX-Redirect", redirectTarget(req))
	w.WriteHeader(http.StatusOK)
}

// HandleRegister mirrors HandleLogin against the registration endpoint.
func (r *Router) HandleRegister(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	creds := Credentials{
		Email:    req.FormValue("email"),
		Password: req.FormValue("password"),
	}
	if err := validate.Struct(creds); err != nil {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `<div id="error" class="error">Please fill in all fields</div>`)
		return
	}

	_, err := r.service.Register(ctx, creds.Email, creds.Password)
	if err != nil {
		logger.Warn().Err(err).Str("email", creds.Email).Msg("Registration failed")
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprintf(w, `<div id="error" class="error">%s</div>`, template.HTMLEscapeString(err.Error()))
		return
	}

	logger.Debug().Str("email", creds.Email).Msg("Registration successful")
	w.Header().Set("HX-Redirect", redirectTarget(req))
	w.WriteHeader(http.StatusOK)
}

func (r *Router) HandleLogout(w http.ResponseWriter, req *http.Request) {
	r.service.Logout()
	w.Header().Set("HX-Redirect", "/dashboard")
	w.WriteHeader(http.StatusOK)
}

// redirectTarget picks the post-login destination. The dashboard's own
// login form sets it so admins land back on /dashboard.
func redirectTarget(req *http.Request) string {
	if target := req.FormValue("redirect"); target == "/dashboard" {
		return target
	}
	return "/shop"
}

func (r *Router) renderPage(w http.ResponseWriter, req *http.Request, path string) {
	logger := hlog.FromRequest(req)

	tmpl, err := template.ParseFiles(path)
	if err != nil {
		logger.Error().Err(err).Str("template", path).Msg("Failed to parse template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := tmpl.Execute(w, nil); err != nil {
		logger.Error().Err(err).Str("template", path).Msg("Failed to execute template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
