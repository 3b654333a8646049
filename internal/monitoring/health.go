package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker tracks gateway connectivity and recent activity for the
// health endpoint.
type HealthChecker struct {
	mu          sync.RWMutex
	lastSignal  time.Time
	lastBalance float64
	isConnected bool
	errors      []string
}

// HealthStatus is the JSON document served by the health endpoint.
type HealthStatus struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	LastSignal  time.Time `json:"last_signal"`
	LastBalance float64   `json:"last_balance"`
	IsConnected bool      `json:"is_connected"`
	Uptime      string    `json:"uptime"`
	Errors      []string  `json:"errors,omitempty"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		errors: make([]string, 0),
	}
}

// SetConnected records the gateway connection state.
func (h *HealthChecker) SetConnected(connected bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.isConnected = connected
}

// SignalProcessed records a successfully handled signal and the balance it
// was calculated against.
func (h *HealthChecker) SignalProcessed(balance float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastSignal = time.Now()
	h.lastBalance = balance
}

// AddError appends an error message, keeping only the most recent ten.
func (h *HealthChecker) AddError(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, message)
	if len(h.errors) > 10 {
		h.errors = h.errors[len(h.errors)-10:]
	}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if !h.isConnected {
		status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	health := HealthStatus{
		Status:      status,
		Timestamp:   time.Now(),
		LastSignal:  h.lastSignal,
		LastBalance: h.lastBalance,
		IsConnected: h.isConnected,
		Uptime:      time.Since(startTime).String(),
		Errors:      h.errors,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
