package terminal

import (
	"fmt"
	"log"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/warmcontact/warm-contact/core"
	"github.com/warmcontact/warm-contact/engine"
)

// TerminalService manages the tcell screen lifecycle and fans out its events
// Implements engine.Viewport, dimensions reported in pixels of cellSize per cell
type TerminalService struct {
	screen   tcell.Screen
	cellSize int

	keyCh  chan *tcell.EventKey
	stopCh chan struct{}
	doneCh chan struct{}

	mu      sync.Mutex
	running bool
	subs    map[int]chan engine.ResizeEvent
	nextSub int
}

// NewService creates a service on the process terminal
func NewService(cellSize int) (*TerminalService, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal screen: %w", err)
	}
	return NewServiceWithScreen(screen, cellSize), nil
}

// NewServiceWithScreen wraps an existing screen, tests pass a simulation screen
func NewServiceWithScreen(screen tcell.Screen, cellSize int) *TerminalService {
	return &TerminalService{
		screen:   screen,
		cellSize: max(cellSize, 1),
		keyCh:    make(chan *tcell.EventKey, 64),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		subs:     make(map[int]chan engine.ResizeEvent),
	}
}

// Start initializes the screen and launches the event polling goroutine
func (s *TerminalService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	s.screen.HideCursor()
	s.screen.Clear()
	core.SetCrashRestore(s.screen.Fini)

	s.running = true
	core.Go(s.pollLoop)
	return nil
}

// Stop halts polling and restores the terminal, safe to call multiple times
func (s *TerminalService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	// Post synthetic interrupt to unblock PollEvent
	_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil))
	<-s.doneCh

	core.SetCrashRestore(nil)
	s.screen.Fini()
}

// pollLoop reads screen events until stop signal
func (s *TerminalService) pollLoop() {
	defer close(s.doneCh)

	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		ev := s.screen.PollEvent()
		if ev == nil {
			// Screen finalized
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			w, h := ev.Size()
			log.Printf("terminal: resize %dx%d", w, h)
			s.screen.Sync()
			s.broadcast(engine.ResizeEvent{Width: w * s.cellSize, Height: h * s.cellSize})

		case *tcell.EventKey:
			select {
			case s.keyCh <- ev:
			case <-s.stopCh:
				return
			}
		}
	}
}

// broadcast delivers the latest size to every subscriber without blocking
func (s *TerminalService) broadcast(ev engine.ResizeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			// Drain and replace to ensure latest size is pending
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

// Size returns the viewport in pixels
func (s *TerminalService) Size() (width, height int) {
	w, h := s.screen.Size()
	return w * s.cellSize, h * s.cellSize
}

// SubscribeResize registers a resize listener, the returned func detaches it
func (s *TerminalService) SubscribeResize() (<-chan engine.ResizeEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan engine.ResizeEvent, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
		})
	}
}

// Listeners returns the number of attached resize subscribers
func (s *TerminalService) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Keys returns the key event channel
func (s *TerminalService) Keys() <-chan *tcell.EventKey {
	return s.keyCh
}

// Screen returns the wrapped screen for drawing
func (s *TerminalService) Screen() tcell.Screen {
	return s.screen
}
