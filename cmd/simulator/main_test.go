package main

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ukydev/eco-routes/internal/models"
)

type fakeAPI struct {
	mu        sync.Mutex
	started   []string
	feedbacks int
	vehicles  int
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/anonymous", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.SignInResponse{UserID: "rider-1", Token: "tok", Anonymous: true})
	})
	mux.HandleFunc("GET /api/routes", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(models.RouteSearchResponse{
			From: r.URL.Query().Get("from"),
			To:   r.URL.Query().Get("to"),
			Options: []models.RouteOption{
				{ID: "route_eco", Category: models.RouteEco, RewardPoints: 20},
				{ID: "route_fast", Category: models.RouteFast, RewardPoints: 5},
			},
		})
	})
	mux.HandleFunc("POST /api/routes/{id}/start", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.started = append(f.started, r.PathValue("id"))
		f.mu.Unlock()
		json.NewEncoder(w).Encode(models.StartRouteResponse{Route: models.RouteOption{ID: r.PathValue("id")}})
	})
	mux.HandleFunc("POST /api/feedback", func(w http.ResponseWriter, r *http.Request) {
		var fb models.FeedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
			t.Errorf("invalid feedback body: %v", err)
		}
		if fb.Rating < 1 || fb.Rating > 5 {
			t.Errorf("rating out of range: %d", fb.Rating)
		}
		f.mu.Lock()
		f.feedbacks++
		f.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("POST /api/garage", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.vehicles++
		f.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("GET /api/profile", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.ProfileResponse{UserProfile: models.UserProfile{UserID: "rider-1", Points: 40}})
	})
	return mux
}

func TestPickTrip_Distinct(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		from, to := pickTrip(rnd)
		if from == to {
			t.Fatalf("trip from %s to itself", from)
		}
	}
}

func TestPickOption_FavoursEco(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	options := []models.RouteOption{
		{ID: "route_eco", Category: models.RouteEco},
		{ID: "route_fast", Category: models.RouteFast},
		{ID: "route_special", Category: models.RouteHybrid},
	}
	counts := map[string]int{}
	for i := 0; i < 1000; i++ {
		counts[pickOption(rnd, options).ID]++
	}
	if counts["route_eco"] <= counts["route_special"] || counts["route_special"] <= counts["route_fast"] {
		t.Errorf("unexpected distribution: %v", counts)
	}
}

func TestClient_SignIn(t *testing.T) {
	api := &fakeAPI{}
	server := httptest.NewServer(api.handler(t))
	defer server.Close()

	c := NewClient(server.URL + "/api")
	if err := c.SignIn(); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if c.userID != "rider-1" || c.token != "tok" {
		t.Errorf("unexpected session: %s %s", c.userID, c.token)
	}

	p, err := c.Profile()
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.Points != 40 {
		t.Errorf("expected 40 points, got %d", p.Points)
	}
}

func TestRideOnce(t *testing.T) {
	api := &fakeAPI{}
	server := httptest.NewServer(api.handler(t))
	defer server.Close()

	c := NewClient(server.URL + "/api")
	if err := c.SignIn(); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if err := c.AddVehicle(sampleVehicles[0]); err != nil {
		t.Fatalf("add vehicle: %v", err)
	}

	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		if err := rideOnce(c, rnd); err != nil {
			t.Fatalf("ride %d: %v", i, err)
		}
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.started) != 20 {
		t.Errorf("expected 20 started routes, got %d", len(api.started))
	}
	if api.vehicles != 1 {
		t.Errorf("expected 1 vehicle, got %d", api.vehicles)
	}
	if api.feedbacks == 0 {
		t.Errorf("expected some feedback over 20 rides")
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient(server.URL)
	if err := c.SignIn(); err == nil {
		t.Error("expected error for 429 response")
	}
}
