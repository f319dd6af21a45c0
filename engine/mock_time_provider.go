package engine

import (
	"sync"
	"time"
)

// MockClock provides a controllable clock for testing
// Tickers fire only through Tick, timers only through Advance
// Active tickers and timers are counted so tests can assert release on teardown
type MockClock struct {
	mu          sync.Mutex
	currentTime time.Time
	tickers     map[*mockTicker]struct{}
	timers      map[*mockTimer]struct{}
}

// NewMockClock creates a mock clock at the given start time
func NewMockClock(startTime time.Time) *MockClock {
	return &MockClock{
		currentTime: startTime,
		tickers:     make(map[*mockTicker]struct{}),
		timers:      make(map[*mockTimer]struct{}),
	}
}

// Now returns the current mocked time
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime
}

// NewTicker registers a ticker that fires on Tick
func (m *MockClock) NewTicker(d time.Duration) Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &mockTicker{clock: m, period: d, ch: make(chan time.Time, 1)}
	m.tickers[t] = struct{}{}
	return t
}

// AfterFunc registers a callback run by Advance once its deadline passes
func (m *MockClock) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &mockTimer{clock: m, deadline: m.currentTime.Add(d), fn: f}
	m.timers[t] = struct{}{}
	return t
}

// Tick delivers one tick to every active ticker, blocking until each is received
func (m *MockClock) Tick() {
	m.mu.Lock()
	now := m.currentTime
	active := make([]*mockTicker, 0, len(m.tickers))
	for t := range m.tickers {
		active = append(active, t)
	}
	m.mu.Unlock()

	for _, t := range active {
		t.ch <- now
	}
}

// Advance moves time forward and runs the timers that became due
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.currentTime = m.currentTime.Add(d)
	var due []*mockTimer
	for t := range m.timers {
		if !t.deadline.After(m.currentTime) {
			due = append(due, t)
			delete(m.timers, t)
		}
	}
	m.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

// ActiveTickers returns the number of tickers not yet stopped
func (m *MockClock) ActiveTickers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tickers)
}

// ActiveTimers returns the number of timers neither fired nor stopped
func (m *MockClock) ActiveTimers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

type mockTicker struct {
	clock  *MockClock
	period time.Duration
	ch     chan time.Time
}

func (t *mockTicker) C() <-chan time.Time { return t.ch }

func (t *mockTicker) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	delete(t.clock.tickers, t)
}

type mockTimer struct {
	clock    *MockClock
	deadline time.Time
	fn       func()
}

func (t *mockTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if _, ok := t.clock.timers[t]; !ok {
		return false
	}
	delete(t.clock.timers, t)
	return true
}
