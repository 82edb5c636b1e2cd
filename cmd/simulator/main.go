package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/eco-routes/internal/models"
)

// Localities riders travel between
var localities = []string{
	"Koramangala",
	"Indiranagar",
	"Whitefield",
	"HSR Layout",
	"Jayanagar",
	"Malleshwaram",
	"Electronic City",
	"Hebbal",
	"MG Road",
	"Yelahanka",
	"Marathahalli",
	"Banashankari",
}

// Garage vehicles a rider may register on sign-up
var sampleVehicles = []models.AddVehicleRequest{
	{Model: "Tata Nexon EV", FuelType: models.FuelElectric, CarbonGPerKm: floatPtr(0)},
	{Model: "Maruti Swift", FuelType: models.FuelPetrol, CarbonGPerKm: floatPtr(115)},
	{Model: "Hyundai Creta Diesel", FuelType: models.FuelDiesel, CarbonGPerKm: floatPtr(135)},
	{Model: "Toyota Hyryder", FuelType: models.FuelHybrid, CarbonGPerKm: floatPtr(92)},
	{Model: "Maruti WagonR CNG", FuelType: models.FuelCNG},
}

var complaints = []string{
	"",
	"",
	"Heavy traffic near the signal",
	"Potholes after the flyover",
	"Road closed for metro work",
}

func floatPtr(f float64) *float64 { return &f }

// Client talks to the EcoRoutes API as one rider
type Client struct {
	baseURL string
	token   string
	userID  string
	http    *http.Client
}

// NewClient creates an unauthenticated client
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: 10 * time.Second}}
}

func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed with status: %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// SignIn signs the rider in anonymously
func (c *Client) SignIn() error {
	var session models.SignInResponse
	if err := c.do(http.MethodPost, "/auth/anonymous", nil, &session); err != nil {
		return err
	}
	c.token = session.Token
	c.userID = session.UserID
	return nil
}

// AddVehicle registers a vehicle in the rider's garage
func (c *Client) AddVehicle(v models.AddVehicleRequest) error {
	return c.do(http.MethodPost, "/garage", v, nil)
}

// Search asks for route options between two localities
func (c *Client) Search(from, to string) (*models.RouteSearchResponse, error) {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	var resp models.RouteSearchResponse
	if err := c.do(http.MethodGet, "/routes?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Start starts one option of the latest search
func (c *Client) Start(routeID string) (*models.StartRouteResponse, error) {
	var resp models.StartRouteResponse
	if err := c.do(http.MethodPost, "/routes/"+url.PathEscape(routeID)+"/start", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Feedback rates a route
func (c *Client) Feedback(f models.FeedbackRequest) error {
	return c.do(http.MethodPost, "/feedback", f, nil)
}

// Profile returns the rider's profile
func (c *Client) Profile() (*models.ProfileResponse, error) {
	var resp models.ProfileResponse
	if err := c.do(http.MethodGet, "/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// pickTrip returns two distinct localities
func pickTrip(rnd *rand.Rand) (string, string) {
	from := rnd.Intn(len(localities))
	to := rnd.Intn(len(localities) - 1)
	if to >= from {
		to++
	}
	return localities[from], localities[to]
}

// pickOption chooses an option, weighted toward the eco route
func pickOption(rnd *rand.Rand, options []models.RouteOption) models.RouteOption {
	weights := map[models.RouteCategory]int{
		models.RouteEco:    6,
		models.RouteHybrid: 3,
		models.RouteFast:   1,
	}
	total := 0
	for _, opt := range options {
		total += weightOf(weights, opt)
	}
	n := rnd.Intn(total)
	for _, opt := range options {
		n -= weightOf(weights, opt)
		if n < 0 {
			return opt
		}
	}
	return options[len(options)-1]
}

func weightOf(weights map[models.RouteCategory]int, opt models.RouteOption) int {
	if w, ok := weights[opt.Category]; ok {
		return w
	}
	return 1
}

// rideOnce searches, starts an option and sometimes leaves feedback
func rideOnce(c *Client, rnd *rand.Rand) error {
	from, to := pickTrip(rnd)
	search, err := c.Search(from, to)
	if err != nil {
		return err
	}
	if len(search.Options) == 0 {
		return fmt.Errorf("no routes from %s to %s", from, to)
	}

	option := pickOption(rnd, search.Options)
	started, err := c.Start(option.ID)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"user_id": c.userID,
		"from":    from,
		"to":      to,
		"route":   option.Name,
		"points":  started.PointsAwarded,
	}).Info("Started route")

	if rnd.Float64() < 0.3 {
		fb := models.FeedbackRequest{
			RouteID:   option.ID,
			Rating:    1 + rnd.Intn(5),
			Complaint: complaints[rnd.Intn(len(complaints))],
		}
		if err := c.Feedback(fb); err != nil {
			return err
		}
		log.WithFields(log.Fields{"user_id": c.userID, "rating": fb.Rating}).Info("Submitted feedback")
	}
	return nil
}

func simulateRider(ctx context.Context, apiURL string, interval time.Duration, seed int64) {
	rnd := rand.New(rand.NewSource(seed))
	c := NewClient(apiURL)
	if err := c.SignIn(); err != nil {
		log.WithError(err).Error("Failed to sign in")
		return
	}
	log.WithField("user_id", c.userID).Info("Rider signed in")

	if rnd.Float64() < 0.7 {
		v := sampleVehicles[rnd.Intn(len(sampleVehicles))]
		if err := c.AddVehicle(v); err != nil {
			log.WithError(err).Warn("Failed to add vehicle")
		}
	}

	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			if p, err := c.Profile(); err == nil {
				log.WithFields(log.Fields{"user_id": c.userID, "points": p.Points}).Info("Rider finished")
			}
			return
		case <-tick.C:
			if err := rideOnce(c, rnd); err != nil {
				log.WithError(err).WithField("user_id", c.userID).Error("Ride failed")
			}
		}
	}
}

func main() {
	riders := 10
	for _, key := range []string{"RIDERS", "FLEET_SIZE"} {
		if val := os.Getenv(key); val != "" {
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				riders = n
				break
			}
		}
	}

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	interval := 5 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	log.WithFields(log.Fields{
		"riders":   riders,
		"api_url":  apiURL,
		"interval": interval,
	}).Info("Starting rider simulation")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	base := time.Now().UnixNano()
	for i := 0; i < riders; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			simulateRider(ctx, apiURL, interval, seed)
		}(base + int64(i))
	}
	wg.Wait()
	log.Info("Rider simulation stopped")
}
