package application

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLightRefresher_Debounce(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	r := NewLightRefresher(func() ([]string, error) {
		calls++
		return []string{"/World/Sun"}, nil
	})
	r.SetClock(func() time.Time { return now })

	job := r.Request()
	require.NotNil(t, job)
	lights, err := job()
	require.NoError(t, err)
	assert.Equal(t, []string{"/World/Sun"}, lights)

	now = now.Add(500 * time.Millisecond)
	assert.Nil(t, r.Request(), "second click within a second is ignored")

	now = now.Add(600 * time.Millisecond)
	job = r.Request()
	require.NotNil(t, job)
	_, _ = job()
	assert.Equal(t, 2, calls)
}

func TestLightRefresher_DropsOverlappingRefresh(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	r := NewLightRefresher(func() ([]string, error) {
		close(started)
		<-release
		return nil, nil
	})

	job := r.Refresh()
	require.NotNil(t, job)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = job()
	}()
	<-started

	assert.True(t, r.InFlight())
	assert.Nil(t, r.Refresh(), "a refresh while one is running is dropped")

	close(release)
	wg.Wait()
	assert.False(t, r.InFlight())
}

func TestLightRefresher_DroppedRequestKeepsDebounceWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	release := make(chan struct{})
	r := NewLightRefresher(func() ([]string, error) {
		<-release
		return nil, nil
	})
	r.SetClock(func() time.Time { return now })

	// an automatic refresh is running when the user clicks
	running := r.Refresh()
	require.NotNil(t, running)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = running()
	}()

	assert.Nil(t, r.Request(), "dropped while the listing runs")
	close(release)
	<-done

	now = now.Add(100 * time.Millisecond)
	job := r.Request()
	require.NotNil(t, job, "the dropped click did not start a debounce window")
	_, _ = job()

	now = now.Add(100 * time.Millisecond)
	assert.Nil(t, r.Request(), "the accepted click did")
}

func TestPickerOptions(t *testing.T) {
	assert.Equal(t, []string{NoSunLight, "/World/Sun"}, PickerOptions([]string{"/World/Sun"}))
}
