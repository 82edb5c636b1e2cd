package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/eco-routes/internal/advisor"
	"github.com/ukydev/eco-routes/internal/models"
	"github.com/ukydev/eco-routes/internal/rewards"
	"github.com/ukydev/eco-routes/internal/routes"
)

// RouteHandler serves route searches and route starts
type RouteHandler struct {
	generator routes.Generator
	cache     *routes.SearchCache
	ledger    *rewards.Ledger
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(generator routes.Generator, cache *routes.SearchCache, ledger *rewards.Ledger) *RouteHandler {
	return &RouteHandler{generator: generator, cache: cache, ledger: ledger}
}

// Search handles GET /api/routes?from=&to=
func (h *RouteHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	options, err := h.generator.Search(r.Context(), from, to)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"from": from, "to": to}).Warn("Route search aborted")
		http.Error(w, "Route search aborted", http.StatusServiceUnavailable)
		return
	}
	h.cache.Put(userID, options)

	resp := models.RouteSearchResponse{
		From:         from,
		To:           to,
		Currency:     models.Currency,
		Options:      options,
		WalkingNudge: advisor.NeedsWalkingNudge(options),
	}
	if resp.WalkingNudge {
		resp.WalkingBonusPoints = advisor.WalkingBonusPoints
	}
	writeJSON(w, http.StatusOK, resp)
}

// Start handles POST /api/routes/{id}/start for an option of the caller's
// latest search. The search is consumed.
func (h *RouteHandler) Start(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	routeID := r.PathValue("id")
	option, found := h.cache.Option(userID, routeID)
	if !found {
		http.Error(w, "Route not found in latest search", http.StatusNotFound)
		return
	}

	// A search is started at most once.
	h.cache.Forget(userID)
	awarded := h.ledger.StartRoute(r.Context(), userID, option)
	writeJSON(w, http.StatusOK, models.StartRouteResponse{Route: option, PointsAwarded: awarded})
}
