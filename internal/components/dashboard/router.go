package dashboard

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"sweetconsole/internal/components/auth"
	"sweetconsole/internal/components/catalog"
	"sweetconsole/internal/shared/middleware"
)

type (
	Router struct {
		state    *State
		sessions *auth.Service
	}

	pageData struct {
		Totals  Totals
		Sweets  []catalog.Sweet
		Search  string
		Error   string
		Modal   ModalView
		IsAdmin bool
		Email   string
	}
)

func NewRouter(service *catalog.Service, sessions *auth.Service, logger zerolog.Logger) *Router {
	return &Router{
		state:    NewState(service, sessions, logger),
		sessions: sessions,
	}
}

func (r *Router) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.NewSessionGuard(r.sessions, r.LoginView))

	router.Get("/", r.Index)
	router.Get("/search", r.SearchTable)
	router.Get("/sweets/new", r.OpenAdd)
	router.Post("/sweets", r.SubmitAdd)
	router.Get("/sweets/{id}/edit", r.OpenEdit)
	router.Put("/sweets/{id}", r.SubmitEdit)
	router.Get("/sweets/{id}/restock", r.OpenRestock)
	router.Post("/sweets/{id}/restock", r.SubmitRestock)
	router.Delete("/sweets/{id}", r.Delete)
	router.Get("/cancel", r.Cancel)

	return router
}

// LoginView is the dashboard's own admin login, shown whenever no session
// is present. The form posts to /login with a /dashboard redirect target.
func (r *Router) LoginView(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	tmpl, err := template.ParseFiles("templates/dashboard_login.html")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse dashboard login template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := tmpl.Execute(w, nil); err != nil {
		logger.Error().Err(err).Msg("Failed to execute dashboard login template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Index refetches the catalog and renders the full dashboard page.
func (r *Router) Index(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	if err := r.state.Load(req.Context()); err != nil {
		logger.Warn().Err(err).Msg("Failed to load catalog")
	}
	r.render(w, req, "dashboard.html", "templates/dashboard.html", "templates/dashboard_content.html")
}

// SearchTable recomputes the client-side filter and returns the content
// fragment. The underlying list is untouched.
func (r *Router) SearchTable(w http.ResponseWriter, req *http.Request) {
	r.state.SetSearch(req.URL.Query().Get("q"))
	r.renderContent(w, req)
}

func (r *Router) OpenAdd(w http.ResponseWriter, req *http.Request) {
	r.state.OpenAdd()
	r.renderContent(w, req)
}

func (r *Router) OpenEdit(w http.ResponseWriter, req *http.Request) {
	if err := r.state.OpenEdit(catalog.ID(chi.URLParam(req, "id"))); err != nil {
		hlog.FromRequest(req).Warn().Err(err).Msg("Edit open failed")
	}
	r.renderContent(w, req)
}

func (r *Router) OpenRestock(w http.ResponseWriter, req *http.Request) {
	if err := r.state.OpenRestock(catalog.ID(chi.URLParam(req, "id"))); err != nil {
		hlog.FromRequest(req).Warn().Err(err).Msg("Restock open failed")
	}
	r.renderContent(w, req)
}

func (r *Router) Cancel(w http.ResponseWriter, req *http.Request) {
	r.state.CloseModal()
	r.renderContent(w, req)
}

func (r *Router) SubmitAdd(w http.ResponseWriter, req *http.Request) {
	r.state.SetDraft(draftFromForm(req))
	if err := r.state.SubmitAdd(req.Context()); err != nil {
		hlog.FromRequest(req).Warn().Err(err).Msg("Add failed")
	}
	r.renderContent(w, req)
}

func (r *Router) SubmitEdit(w http.ResponseWriter, req *http.Request) {
	r.state.SetDraft(draftFromForm(req))
	if err := r.state.SubmitEdit(req.Context()); err != nil {
		hlog.FromRequest(req).Warn().Err(err).Msg("Edit failed")
	}
	r.renderContent(w, req)
}

func (r *Router) SubmitRestock(w http.ResponseWriter, req *http.Request) {
	r.state.SetDraft(catalog.Draft{Stock: req.FormValue("quantity")})
	if err := r.state.SubmitRestock(req.Context()); err != nil {
		hlog.FromRequest(req).Warn().Err(err).Msg("Restock failed")
	}
	r.renderContent(w, req)
}

// Delete runs after the client-side confirmation prompt; declining the
// prompt never reaches this handler.
func (r *Router) Delete(w http.ResponseWriter, req *http.Request) {
	id := catalog.ID(chi.URLParam(req, "id"))
	if err := r.state.Delete(req.Context(), id); err != nil {
		hlog.FromRequest(req).Warn().Err(err).Str("id", string(id)).Msg("Delete failed")
	}
	r.renderContent(w, req)
}

func draftFromForm(req *http.Request) catalog.Draft {
	return catalog.Draft{
		Name:     req.FormValue("name"),
		Category: req.FormValue("category"),
		Price:    req.FormValue("price"),
		Stock:    req.FormValue("stock"),
		Image:    req.FormValue("image"),
	}
}

func (r *Router) renderContent(w http.ResponseWriter, req *http.Request) {
	r.render(w, req, "dashboard_content", "templates/dashboard_content.html")
}

func (r *Router) render(w http.ResponseWriter, req *http.Request, name string, files ...string) {
	logger := hlog.FromRequest(req)

	data := pageData{
		Totals:  r.state.Totals(),
		Sweets:  r.state.Filtered(),
		Search:  r.state.Search(),
		Error:   r.state.Error(),
		Modal:   r.state.ModalView(),
		IsAdmin: r.sessions.IsAdmin(),
	}
	if user := r.sessions.CurrentUser(); user != nil {
		data.Email = user.Email
	}

	tmpl, err := template.ParseFiles(files...)
	if err != nil {
		logger.Error().Err(err).Str("template", name).Msg("Failed to parse template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		logger.Error().Err(err).Str("template", name).Msg("Failed to execute template")
	}
}
