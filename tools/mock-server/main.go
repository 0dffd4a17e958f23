// Package main implements a mock Apple pickup-message server for local
// development. Point apple.pickup_url at it to exercise stock transitions
// without hitting apple.com.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

const pickupPath = "/jp/shop/retail/pickup-message"

type pickupResponse struct {
	Body struct {
		Stores []pickupStore `json:"stores"`
	} `json:"body"`
}

type pickupStore struct {
	StoreName         string                      `json:"storeName"`
	StoreEmail        string                      `json:"storeEmail,omitempty"`
	PhoneNumber       string                      `json:"phoneNumber,omitempty"`
	Address           map[string]string           `json:"address,omitempty"`
	PartsAvailability map[string]partAvailability `json:"partsAvailability"`
}

type partAvailability struct {
	PickupDisplay string `json:"pickupDisplay"`
}

// inventory tracks which parts are in stock. With flipEvery > 0 a part
// toggles after every flipEvery probes of it.
type inventory struct {
	mu        sync.Mutex
	inStock   map[string]bool
	probes    map[string]int
	flipEvery int
}

func newInventory(flipEvery int, initial []string) *inventory {
	inv := &inventory{
		inStock:   map[string]bool{},
		probes:    map[string]int{},
		flipEvery: flipEvery,
	}
	for _, p := range initial {
		inv.inStock[p] = true
	}
	return inv
}

// probe records one request for part and returns its current state.
func (inv *inventory) probe(part string) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	inv.probes[part]++
	if inv.flipEvery > 0 && inv.probes[part]%inv.flipEvery == 0 {
		inv.inStock[part] = !inv.inStock[part]
	}
	return inv.inStock[part]
}

func (inv *inventory) set(part string, available bool) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.inStock[part] = available
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	flipEvery := flag.Int("flip-every", 0, "toggle a part's availability after this many probes (0 disables)")
	inStock := flag.String("in-stock", "", "comma-separated part numbers that start in stock")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var initial []string
	if *inStock != "" {
		initial = strings.Split(*inStock, ",")
	}
	inv := newInventory(*flipEvery, initial)

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+pickupPath, pickupHandler(logger, inv))
	mux.HandleFunc("POST /admin/availability", adminHandler(logger, inv))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock pickup server", "addr", addr, "flip_every", *flipEvery)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

// pickupHandler answers with the requested location as the only store,
// reporting the part as available or unavailable.
func pickupHandler(logger *slog.Logger, inv *inventory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		part := r.URL.Query().Get("parts.0")
		location := r.URL.Query().Get("location")
		if part == "" || location == "" {
			http.Error(w, "parts.0 and location are required", http.StatusBadRequest)
			return
		}

		display := "unavailable"
		if inv.probe(part) {
			display = "available"
		}

		var resp pickupResponse
		resp.Body.Stores = []pickupStore{{
			StoreName:   location,
			StoreEmail:  strings.ToLower(strings.ReplaceAll(location, " ", "")) + "@example.com",
			PhoneNumber: "03-0000-0000",
			Address:     map[string]string{"address": location + ", Japan"},
			PartsAvailability: map[string]partAvailability{
				part: {PickupDisplay: display},
			},
		}}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(resp)
		logger.Info("pickup", "part", part, "location", location, "display", display)
	}
}

// adminHandler forces a part's state: POST /admin/availability?part=X&available=true.
func adminHandler(logger *slog.Logger, inv *inventory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		part := r.URL.Query().Get("part")
		if part == "" {
			http.Error(w, "part is required", http.StatusBadRequest)
			return
		}
		available := r.URL.Query().Get("available") == "true"
		inv.set(part, available)

		w.WriteHeader(http.StatusNoContent)
		logger.Info("availability set", "part", part, "available", available)
	}
}
