package shop

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"sweetconsole/internal/components/catalog"
)

type (
	Router struct {
		state *State
	}

	// pageData feeds both the full page and the grid fragment.
	pageData struct {
		Items   []viewItem
		Error   string
		Success string
	}

	viewItem struct {
		Item
		CanBuy bool
	}
)

func NewRouter(service *catalog.Service, logger zerolog.Logger) *Router {
	return &Router{state: NewState(service, logger)}
}

func (r *Router) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", r.ShopPage)
	router.Post("/{id}/purchase", r.HandlePurchase)
	return router
}

// ShopPage refetches the catalog and renders the full storefront.
func (r *Router) ShopPage(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	if err := r.state.Load(req.Context()); err != nil {
		logger.Warn().Err(err).Msg("Failed to load catalog")
	}
	r.render(w, req, "shop.html", "templates/shop.html", "templates/shop_grid.html")
}

// HandlePurchase buys the posted quantity of one sweet and returns the
// refreshed grid fragment, banner included.
func (r *Router) HandlePurchase(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	id := catalog.ID(chi.URLParam(req, "id"))
	if quantity, err := strconv.Atoi(req.FormValue("quantity")); err == nil {
		r.state.SetQuantity(id, quantity)
	} else {
		// An unparseable input disables the control; mirror that here.
		r.state.SetQuantity(id, 0)
	}

	if err := r.state.Purchase(req.Context(), id); err != nil {
		logger.Warn().Err(err).Str("id", string(id)).Msg("Purchase failed")
	}
	r.render(w, req, "shop_grid", "templates/shop_grid.html")
}

func (r *Router) render(w http.ResponseWriter, req *http.Request, name string, files ...string) {
	logger := hlog.FromRequest(req)

	items := r.state.Items()
	data := pageData{
		Items:   make([]viewItem, len(items)),
		Error:   r.state.Error(),
		Success: r.state.Success(),
	}
	for i, item := range items {
		data.Items[i] = viewItem{Item: item, CanBuy: r.state.CanPurchase(item.ID)}
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
