package audio

import (
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// Player plays a short tone without blocking the caller
type Player interface {
	PlayTone(freq float64, d time.Duration)
}

// AudioEngine drives the system speaker through beep
// A failed speaker init leaves the engine in silent mode instead of erroring
type AudioEngine struct {
	config *AudioConfig
	rate   beep.SampleRate

	running    atomic.Bool
	silentMode atomic.Bool
	played     atomic.Int64

	mu sync.Mutex
}

// NewAudioEngine creates an audio engine, nil config uses defaults
func NewAudioEngine(config *AudioConfig) *AudioEngine {
	if config == nil {
		config = DefaultAudioConfig()
	}
	return &AudioEngine{
		config: config,
		rate:   beep.SampleRate(config.SampleRate),
	}
}

// Start opens the speaker; the returned error is informational, the engine stays usable in silent mode
func (ae *AudioEngine) Start() error {
	ae.mu.Lock()
	defer ae.mu.Unlock()

	if ae.running.Load() {
		return fmt.Errorf("audio engine already running")
	}
	ae.running.Store(true)

	if !ae.config.Enabled {
		ae.silentMode.Store(true)
		return nil
	}

	if err := speaker.Init(ae.rate, ae.rate.N(time.Second/10)); err != nil {
		ae.silentMode.Store(true)
		log.Printf("audio: speaker init failed, continuing silent: %v", err)
		return err
	}
	log.Printf("audio: speaker at %d Hz", ae.config.SampleRate)
	return nil
}

func (ae *AudioEngine) Stop() {
	ae.mu.Lock()
	defer ae.mu.Unlock()

	if !ae.running.Swap(false) {
		return
	}
	if !ae.silentMode.Load() {
		speaker.Close()
	}
}

func (ae *AudioEngine) IsSilent() bool {
	return ae.silentMode.Load() || !ae.running.Load()
}

// Played counts tones handed to the speaker
func (ae *AudioEngine) Played() int64 {
	return ae.played.Load()
}

// PlayTone queues a sine tone on the speaker mixer
func (ae *AudioEngine) PlayTone(freq float64, d time.Duration) {
	if ae.IsSilent() {
		return
	}

	tone, err := ToneStreamer(ae.rate, freq, d, ae.config.MasterVolume)
	if err != nil {
		log.Printf("audio: %v", err)
		return
	}
	speaker.Play(tone)
	ae.played.Add(1)
}

// ToneStreamer builds a finite sine tone attenuated to volume (0.0-1.0)
func ToneStreamer(rate beep.SampleRate, freq float64, d time.Duration, volume float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, fmt.Errorf("tone %.0f Hz: %w", freq, err)
	}

	vol := &effects.Volume{
		Streamer: beep.Take(rate.N(d), sine),
		Base:     2,
		Silent:   volume <= 0,
	}
	if volume > 0 {
		vol.Volume = math.Log2(math.Min(volume, 1))
	}
	return vol, nil
}
