package engine

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/warmcontact/warm-contact/core"
)

// ResizeEvent carries new viewport dimensions in pixels
type ResizeEvent struct {
	Width  int
	Height int
}

// Viewport is the host surface the driver follows
type Viewport interface {
	// Size returns the current dimensions in pixels
	Size() (width, height int)
	// SubscribeResize returns a channel of resize events and the function detaching it
	SubscribeResize() (<-chan ResizeEvent, func())
}

// Scene is the work driven once per tick
// All calls happen on the driver goroutine, never concurrently
type Scene interface {
	Init(width, height int)
	Resize(width, height int)
	Tick()
}

// Releaser is implemented by scenes holding resources beyond the driver's own
// Release runs on Unmount after the loop has exited
type Releaser interface {
	Release()
}

// Driver runs a Scene on a fixed period and keeps it sized to the viewport
// Mount acquires the ticker and the resize subscription, Unmount releases both
type Driver struct {
	clock    Clock
	viewport Viewport
	scene    Scene
	interval time.Duration

	mu           sync.Mutex
	mounted      bool
	ticker       Ticker
	cancelResize func()
	stopChan     chan struct{}
	wg           sync.WaitGroup

	tickCount atomic.Uint64
}

// NewDriver creates an unmounted driver ticking every interval
func NewDriver(clock Clock, viewport Viewport, scene Scene, interval time.Duration) *Driver {
	return &Driver{
		clock:    clock,
		viewport: viewport,
		scene:    scene,
		interval: interval,
	}
}

// Mount initializes the scene at the current viewport size and starts the loop
// Mounting an already mounted driver is a no-op
func (d *Driver) Mount() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.mounted {
		return
	}

	w, h := d.viewport.Size()
	d.scene.Init(w, h)

	d.ticker = d.clock.NewTicker(d.interval)
	resizeCh, cancel := d.viewport.SubscribeResize()
	d.cancelResize = cancel
	d.stopChan = make(chan struct{})

	d.wg.Add(1)
	// Use core.Go for safe execution with centralized crash handling
	core.Go(func() {
		d.loop(d.ticker.C(), resizeCh, d.stopChan)
	})

	d.mounted = true
	log.Printf("driver: mounted %dx%d, interval %v", w, h, d.interval)
}

// Unmount stops the loop and releases the ticker, the resize subscription and scene resources
// Safe to call multiple times and without a prior Mount
func (d *Driver) Unmount() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.mounted {
		return
	}

	close(d.stopChan)
	d.wg.Wait()

	d.ticker.Stop()
	d.cancelResize()
	if r, ok := d.scene.(Releaser); ok {
		r.Release()
	}

	d.ticker = nil
	d.cancelResize = nil
	d.mounted = false
	log.Printf("driver: unmounted after %d ticks", d.tickCount.Load())
}

// Mounted reports whether the loop is running
func (d *Driver) Mounted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mounted
}

// Ticks returns the number of completed scene ticks
func (d *Driver) Ticks() uint64 {
	return d.tickCount.Load()
}

// loop serializes ticks and resizes on one goroutine
func (d *Driver) loop(tickC <-chan time.Time, resizeCh <-chan ResizeEvent, stop <-chan struct{}) {
	defer d.wg.Done()

	for {
		// Stop wins over pending work
		select {
		case <-stop:
			return
		default:
		}

		select {
		case <-stop:
			return

		case <-tickC:
			d.scene.Tick()
			d.tickCount.Add(1)

		case ev, ok := <-resizeCh:
			if !ok {
				// Viewport closed its feed, keep ticking at the last size
				resizeCh = nil
				continue
			}
			d.scene.Resize(ev.Width, ev.Height)
		}
	}
}
