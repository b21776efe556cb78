package application

import (
	"sync"
	"sync/atomic"
	"time"
)

// RefreshDebounce is the minimum gap between two manual refreshes
const RefreshDebounce = time.Second

// LightRefresher runs a light listing off the UI goroutine. A request made
// while a listing is running is dropped, not queued.
type LightRefresher struct {
	list     func() ([]string, error)
	debounce time.Duration
	now      func() time.Time

	inFlight atomic.Bool
	mu       sync.Mutex
	last     time.Time
}

// NewLightRefresher wraps a listing function, e.g. SunController.DistantLights
func NewLightRefresher(list func() ([]string, error)) *LightRefresher {
	return &LightRefresher{
		list:     list,
		debounce: RefreshDebounce,
		now:      time.Now,
	}
}

// SetClock replaces the clock used for the debounce
func (r *LightRefresher) SetClock(now func() time.Time) {
	r.now = now
}

// Request is the manual trigger: it returns the job to run, or nil when the
// previous request was less than the debounce interval ago or a listing is
// still running. Only a request that starts a listing opens a new debounce
// window.
func (r *LightRefresher) Request() func() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if !r.last.IsZero() && now.Sub(r.last) < r.debounce {
		return nil
	}
	job := r.Refresh()
	if job != nil {
		r.last = now
	}
	return job
}

// Refresh returns the listing job without the debounce, or nil when a
// listing is already running.
func (r *LightRefresher) Refresh() func() ([]string, error) {
	if !r.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	return func() ([]string, error) {
		defer r.inFlight.Store(false)
		return r.list()
	}
}

// InFlight reports whether a listing is running
func (r *LightRefresher) InFlight() bool {
	return r.inFlight.Load()
}

// PickerOptions prepends the "no light" entry to a listing
func PickerOptions(lights []string) []string {
	return append([]string{NoSunLight}, lights...)
}
