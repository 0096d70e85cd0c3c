package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pdfspeech/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// Engine identifies the speech synthesis backend.
type Engine string

const (
	EngineCloud   Engine = "cloud"
	EngineOffline Engine = "offline"
)

// LanguageAuto asks the synthesis stage to detect the language from the
// extracted text.
const LanguageAuto = "auto"

// ParseEngine validates an engine name given on the command line or in
// configuration.
func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case EngineCloud, EngineOffline:
		return Engine(s), nil
	case "":
		return "", fmt.Errorf("engine is empty (want %s or %s)", EngineCloud, EngineOffline)
	default:
		return "", fmt.Errorf("unknown engine %q (want %s or %s)", s, EngineCloud, EngineOffline)
	}
}

// SynthConfig holds settings for the synthesis stage.
type SynthConfig struct {
	HTTPConfig `yaml:",inline"`

	// Engine selects the synthesis backend: cloud or offline.
	Engine Engine `json:"engine" yaml:"engine"`

	// Language is an ISO 639-1 code, or "auto" to detect from the text.
	Language string `json:"language" yaml:"language"`

	// Voice overrides the offline engine voice (default: the language code).
	Voice string `json:"voice,omitempty" yaml:"voice,omitempty"`

	// Rate is the offline speech rate in words per minute (default 175).
	Rate int `json:"rate" yaml:"rate"`

	// Command is an optional custom offline synthesis command. When set it
	// replaces the detected engine invocation; segment text is piped to
	// stdin and WAV audio is read from stdout.
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
}

// LogConfig holds settings for run logging.
type LogConfig struct {
	// File is the log file path (default "pdfspeech.log").
	File string `json:"file" yaml:"file"`

	// Verbose enables debug-level logging.
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// ConvertConfig groups all settings for one conversion run.
type ConvertConfig struct {
	Synth SynthConfig `json:"synth" yaml:"synth"`
	Log   LogConfig   `json:"log" yaml:"log"`

	// WriteMetadata enables the YAML metadata sidecar next to the output file.
	WriteMetadata bool `json:"write_metadata" yaml:"write_metadata"`
}
