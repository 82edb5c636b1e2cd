package handlers

import (
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/eco-routes/internal/advisor"
	"github.com/ukydev/eco-routes/internal/models"
	"github.com/ukydev/eco-routes/internal/rewards"
)

// RewardsHandler serves profiles, the leaderboard, garages, feedback and tips
type RewardsHandler struct {
	ledger *rewards.Ledger

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRewardsHandler creates a new rewards handler
func NewRewardsHandler(ledger *rewards.Ledger) *RewardsHandler {
	return &RewardsHandler{
		ledger: ledger,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Profile handles GET /api/profile. A default profile is created on first
// access.
func (h *RewardsHandler) Profile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	h.ledger.EnsureProfile(r.Context(), userID)
	profile, err := h.ledger.Profile(r.Context(), userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to load profile")
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.ProfileResponse{
		UserProfile:        profile,
		PointsToNextReward: advisor.PointsToNextReward(profile.Points),
	})
}

// PointLogs handles GET /api/profile/points
func (h *RewardsHandler) PointLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	logs, err := h.ledger.PointLogs(r.Context(), userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to load point logs")
		http.Error(w, "Failed to load point logs", http.StatusInternalServerError)
		return
	}
	if logs == nil {
		logs = []models.PointLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

// Leaderboard handles GET /api/leaderboard
func (h *RewardsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries, err := h.ledger.Leaderboard(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to load leaderboard")
		http.Error(w, "Failed to load leaderboard", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Garage handles GET and POST /api/garage
func (h *RewardsHandler) Garage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		vehicles, err := h.ledger.Garage(r.Context(), userID)
		if err != nil {
			log.WithError(err).WithField("user_id", userID).Error("Failed to load garage")
			http.Error(w, "Failed to load garage", http.StatusInternalServerError)
			return
		}
		if vehicles == nil {
			vehicles = []models.GarageVehicle{}
		}
		writeJSON(w, http.StatusOK, vehicles)

	case http.MethodPost:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		var req models.AddVehicleRequest
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Model) == "" {
			http.Error(w, "Model is required", http.StatusBadRequest)
			return
		}
		if !models.IsValidFuelType(req.FuelType) {
			http.Error(w, "Invalid fuel type", http.StatusBadRequest)
			return
		}

		h.ledger.AddVehicle(r.Context(), userID, &models.GarageVehicle{
			Model:        req.Model,
			Year:         req.Year,
			Mileage:      req.Mileage,
			FuelType:     req.FuelType,
			CarbonGPerKm: req.CarbonGPerKm,
		})
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// BestVehicle handles GET /api/garage/best?distance_km=
func (h *RewardsHandler) BestVehicle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var distance float64
	if s := r.URL.Query().Get("distance_km"); s != "" {
		d, err := strconv.ParseFloat(s, 64)
		if err != nil || d < 0 {
			http.Error(w, "Invalid distance_km", http.StatusBadRequest)
			return
		}
		distance = d
	}

	vehicles, err := h.ledger.Garage(r.Context(), userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to load garage")
		http.Error(w, "Failed to load garage", http.StatusInternalServerError)
		return
	}

	best := advisor.BestVehicleForTrip(vehicles, distance)
	if best == nil {
		http.Error(w, "Garage is empty", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, best)
}

// Feedback handles POST /api/feedback
func (h *RewardsHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	var req models.FeedbackRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Rating < 0 || req.Rating > 5 {
		http.Error(w, "Rating must be between 1 and 5", http.StatusBadRequest)
		return
	}

	h.ledger.SubmitFeedback(r.Context(), userID, &models.Feedback{
		RouteID:   req.RouteID,
		Rating:    req.Rating,
		Complaint: req.Complaint,
	})
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// Tip handles GET /api/tips
func (h *RewardsHandler) Tip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.mu.Lock()
	tip := advisor.RandomTip(h.rnd)
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, models.TipResponse{Tip: tip})
}
