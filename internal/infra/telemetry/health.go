package telemetry

import (
	"sort"
	"sync"
	"time"
)

// HealthReport is the JSON body served on /healthz.
type HealthReport struct {
	Status  string            `json:"status"`
	Checks  []HealthCheck     `json:"checks,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// HealthCheck describes one registered background loop.
type HealthCheck struct {
	Name     string    `json:"name"`
	Status   string    `json:"status"`
	LastBeat time.Time `json:"lastBeat"`
}

// HealthTracker aggregates heartbeats from background loops.
type HealthTracker struct {
	mu      sync.Mutex
	now     func() time.Time
	beats   map[string]*Heartbeat
	details map[string]func() string
}

func NewHealthTracker() *HealthTracker {
	return &HealthTracker{
		now:     time.Now,
		beats:   make(map[string]*Heartbeat),
		details: make(map[string]func() string),
	}
}

// Heartbeat is a handle a loop uses to signal liveness.
type Heartbeat struct {
	tracker *HealthTracker
	name    string
	ttl     time.Duration
	last    time.Time
}

// Register adds a loop that is considered stale when it has not beaten within ttl.
func (h *HealthTracker) Register(name string, ttl time.Duration) *Heartbeat {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	beat := &Heartbeat{tracker: h, name: name, ttl: ttl, last: h.now()}
	h.beats[name] = beat
	return beat
}

// Detail adds a named value computed on every report.
func (h *HealthTracker) Detail(name string, value func() string) {
	if h == nil || value == nil {
		return
	}
	h.mu.Lock()
	h.details[name] = value
	h.mu.Unlock()
}

func (b *Heartbeat) Beat() {
	if b == nil {
		return
	}
	b.tracker.mu.Lock()
	b.last = b.tracker.now()
	b.tracker.mu.Unlock()
}

// Stop unregisters the heartbeat.
func (b *Heartbeat) Stop() {
	if b == nil {
		return
	}
	b.tracker.mu.Lock()
	if b.tracker.beats[b.name] == b {
		delete(b.tracker.beats, b.name)
	}
	b.tracker.mu.Unlock()
}

func (h *HealthTracker) Report() HealthReport {
	if h == nil {
		return HealthReport{Status: "ok"}
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	report := HealthReport{Status: "ok"}
	for _, beat := range h.beats {
		check := HealthCheck{Name: beat.name, Status: "ok", LastBeat: beat.last}
		if beat.ttl > 0 && now.Sub(beat.last) > beat.ttl {
			check.Status = "stale"
			report.Status = "degraded"
		}
		report.Checks = append(report.Checks, check)
	}
	sort.Slice(report.Checks, func(i, j int) bool { return report.Checks[i].Name < report.Checks[j].Name })
	if len(h.details) > 0 {
		report.Details = make(map[string]string, len(h.details))
		for name, value := range h.details {
			report.Details[name] = value()
		}
	}
	return report
}
