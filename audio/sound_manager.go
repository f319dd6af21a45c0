// Package audio plays the optional drip tone that accompanies a column restarting at the top
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/warmcontact/warm-contact/engine"
)

const (
	sampleRate = beep.SampleRate(44100)

	dripDuration = 60 * time.Millisecond
	dripVolume   = 0.15
)

// dripScale is a pentatonic set, columns map onto it left to right
var dripScale = []float64{523.25, 587.33, 659.25, 783.99, 880.00, 1046.50}

// SoundManager mixes drip tones onto the speaker
// Drips closer together than the cooldown are dropped
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	clock       engine.Clock
	cooldown    time.Duration
	lastDrip    time.Time
	initialized bool
}

// NewSoundManager creates a silent manager, call Initialize to open the speaker
func NewSoundManager(clock engine.Clock, cooldown time.Duration) *SoundManager {
	return &SoundManager{
		mixer:    &beep.Mixer{},
		clock:    clock,
		cooldown: cooldown,
	}
}

// Initialize sets up the audio system
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	// Initialize speaker with sample rate and buffer size
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Drip queues a short tone pitched by the column's place among columns
// Returns false when skipped
func (sm *SoundManager) Drip(column, columns int) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return false
	}

	now := sm.clock.Now()
	if !sm.lastDrip.IsZero() && now.Sub(sm.lastDrip) < sm.cooldown {
		return false
	}

	tone, err := generators.SineTone(sampleRate, dripPitch(column, columns))
	if err != nil {
		return false
	}
	sm.lastDrip = now

	s := beep.Take(sampleRate.N(dripDuration), tone)
	v := &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(dripVolume)}

	speaker.Lock()
	sm.mixer.Add(v)
	speaker.Unlock()
	return true
}

// dripPitch maps a column to a note of the scale
func dripPitch(column, columns int) float64 {
	if columns <= 0 || column < 0 {
		return dripScale[0]
	}
	i := column * len(dripScale) / columns
	return dripScale[min(i, len(dripScale)-1)]
}

// Cleanup stops all sounds and closes the audio system
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()

	speaker.Close()
	sm.initialized = false
}
