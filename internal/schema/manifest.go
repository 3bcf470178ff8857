package schema

import "sync"

type WalkLevel string

const (
	LevelCountry WalkLevel = "country"
	LevelRegion  WalkLevel = "region"
	LevelCity    WalkLevel = "city"
	LevelHotel   WalkLevel = "hotel"
)

type WalkUnitCount struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
}

type WalkFailure struct {
	Level   WalkLevel `json:"level"`
	Key     int       `json:"key"`
	Name    string    `json:"name,omitempty"`
	Message string    `json:"message"`
}

// WalkManifest is the summary every catalog pass returns: attempted vs
// succeeded vs skipped units at each level plus the per-unit failure log.
// Partial failures live here, they never crash the walk.
type WalkManifest struct {
	RunID     string        `json:"runId"`
	Countries WalkUnitCount `json:"countries"`
	Cities    WalkUnitCount `json:"cities"`
	Hotels    WalkUnitCount `json:"hotels"`
	Records   int           `json:"records"`
	Failures  []WalkFailure `json:"failures"`

	mu sync.Mutex
}

func NewWalkManifest(runID string) *WalkManifest {
	return &WalkManifest{
		RunID:    runID,
		Failures: []WalkFailure{},
	}
}

func (m *WalkManifest) Attempt(level WalkLevel) {
	m.mu.Lock()
	m.counter(level).Attempted++
	m.mu.Unlock()
}

func (m *WalkManifest) Succeed(level WalkLevel) {
	m.mu.Lock()
	m.counter(level).Succeeded++
	m.mu.Unlock()
}

func (m *WalkManifest) Skip(level WalkLevel, key int, name string, message string) {
	m.mu.Lock()
	m.counter(level).Skipped++
	m.Failures = append(m.Failures, WalkFailure{
		Level:   level,
		Key:     key,
		Name:    name,
		Message: message,
	})
	m.mu.Unlock()
}

// Fail records a failure without touching the per-level counters, used for
// levels the manifest does not count individually (regions).
func (m *WalkManifest) Fail(level WalkLevel, key int, name string, message string) {
	m.mu.Lock()
	m.Failures = append(m.Failures, WalkFailure{
		Level:   level,
		Key:     key,
		Name:    name,
		Message: message,
	})
	m.mu.Unlock()
}

func (m *WalkManifest) AddRecords(n int) {
	m.mu.Lock()
	m.Records += n
	m.mu.Unlock()
}

func (m *WalkManifest) counter(level WalkLevel) *WalkUnitCount {
	switch level {
	case LevelCity:
		return &m.Cities
	case LevelHotel:
		return &m.Hotels
	default:
		return &m.Countries
	}
}
