package audio

import (
	"time"

	"github.com/lixenwraith/galileo/parameter"
)

// AudioConfig holds cue synthesis settings
type AudioConfig struct {
	Enabled      bool
	SampleRate   int
	MasterVolume float64 // 0.0-1.0
	Frequency    float64 // Hz
	Duration     time.Duration
	Cooldown     time.Duration
}

func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:      true,
		SampleRate:   parameter.AudioSampleRate,
		MasterVolume: parameter.AudioMasterVolume,
		Frequency:    parameter.CatchCueFrequency,
		Duration:     parameter.CatchCueDuration,
		Cooldown:     parameter.CatchCueCooldown,
	}
}
