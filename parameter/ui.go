package parameter

import "time"

// Terminal Viewer
const (
	// HUDHeight is the number of terminal rows reserved for the status line
	HUDHeight = 1
)

// Audio Cue
const (
	// CatchCueCooldown throttles the audio cue when the predator flickers between pursuing and holding
	CatchCueCooldown = 750 * time.Millisecond

	// CatchCueFrequency is the tone of the catch cue in Hz
	CatchCueFrequency = 660.0

	// CatchCueDuration is the length of the catch cue
	CatchCueDuration = 80 * time.Millisecond

	AudioSampleRate   = 44100
	AudioMasterVolume = 0.5 // 0.0-1.0
)

// Window Viewer
const (
	// WindowWidth and WindowHeight are the window size in pixels
	WindowWidth  = 1280
	WindowHeight = 720

	// WindowTitle is the window caption
	WindowTitle = "Galileo"

	// WindowParticleRadius and WindowPredatorRadius are marker sizes in pixels
	WindowParticleRadius = 3.0
	WindowPredatorRadius = 7.0
)

// Logging
const (
	// LogDir and LogFileName locate the debug log
	LogDir      = "logs"
	LogFileName = "galileo.log"

	// MaxLogSize triggers rotation of the debug log at startup
	MaxLogSize = 10 * 1024 * 1024
)
