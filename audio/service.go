package audio

import (
	"context"
	"log"
)

// AudioService wraps AudioEngine and its catch cue as a Service
// Handles graceful degradation when no speaker is available
type AudioService struct {
	engine *AudioEngine
	cue    *CatchCue
}

// NewService builds the engine and cue; the cue is silent until Start succeeds
func NewService(config *AudioConfig) *AudioService {
	if config == nil {
		config = DefaultAudioConfig()
	}
	ae := NewAudioEngine(config)
	return &AudioService{
		engine: ae,
		cue:    NewCatchCue(ae, nil, config),
	}
}

func (s *AudioService) Name() string {
	return "audio"
}

func (s *AudioService) Dependencies() []string {
	return nil
}

// Start never fails; a missing speaker leaves the engine silent
func (s *AudioService) Start(_ context.Context) error {
	if err := s.engine.Start(); err != nil {
		log.Printf("audio: continuing without sound: %v", err)
	}
	return nil
}

func (s *AudioService) Stop() error {
	s.engine.Stop()
	return nil
}

// Cue returns the scheduler observer driving the speaker
func (s *AudioService) Cue() *CatchCue {
	return s.cue
}

func (s *AudioService) Engine() *AudioEngine {
	return s.engine
}
