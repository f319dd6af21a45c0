package terminal

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func newSimService(t *testing.T, w, h int) (*TerminalService, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	svc := NewServiceWithScreen(sim, 10)
	if err := svc.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	sim.SetSize(w, h)
	return svc, sim
}

func TestService_SizeInPixels(t *testing.T) {
	svc, _ := newSimService(t, 80, 24)
	defer svc.Stop()

	w, h := svc.Size()
	if w != 800 || h != 240 {
		t.Errorf("Expected 800x240 pixels, got %dx%d", w, h)
	}
}

func TestService_ResizeFanOut(t *testing.T) {
	svc, sim := newSimService(t, 80, 24)
	defer svc.Stop()

	ch, cancel := svc.SubscribeResize()
	if svc.Listeners() != 1 {
		t.Fatalf("Expected 1 listener, got %d", svc.Listeners())
	}

	sim.SetSize(40, 12)
	if err := sim.PostEvent(tcell.NewEventResize(40, 12)); err != nil {
		t.Fatalf("PostEvent: %v", err)
	}

	// Initial size event from Init may arrive first; wait for the posted one
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev.Width == 400 && ev.Height == 120 {
				cancel()
				cancel()
				if svc.Listeners() != 0 {
					t.Errorf("Expected listener detached, got %d", svc.Listeners())
				}
				return
			}
		case <-deadline:
			t.Fatal("resize event not delivered")
		}
	}
}

func TestService_KeysForwarded(t *testing.T) {
	svc, sim := newSimService(t, 20, 5)
	defer svc.Stop()

	sim.InjectKey(tcell.KeyRune, 'm', tcell.ModNone)

	select {
	case ev := <-svc.Keys():
		if ev.Key() != tcell.KeyRune || ev.Rune() != 'm' {
			t.Errorf("Expected rune 'm', got key %v rune %q", ev.Key(), ev.Rune())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("key event not forwarded")
	}
}

func TestService_StopIdempotent(t *testing.T) {
	svc, _ := newSimService(t, 10, 10)
	svc.Stop()
	svc.Stop()
}
