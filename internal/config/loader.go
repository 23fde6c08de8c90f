package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Host string `json:"host" yaml:"host" toml:"host"`
	Port int    `json:"port" yaml:"port" toml:"port"`

	// API key for the gateway. Empty disables authentication.
	APIKey string `json:"api_key" yaml:"api_key" toml:"api_key"`

	// Backend selects the synthesis/transcription backend: "local" (default)
	// or "elevenlabs".
	Backend string `json:"backend" yaml:"backend" toml:"backend"`

	// Directory holding voices.json and the voice reference *.wav files.
	VoicesDir string `json:"voices_dir" yaml:"voices_dir" toml:"voices_dir"`

	// Model artifact locations, resolved by the model runtime.
	TTSBaseModelPath        string `json:"tts_base_model_path" yaml:"tts_base_model_path" toml:"tts_base_model_path"`
	TTSVoiceDesignModelPath string `json:"tts_voice_design_model_path" yaml:"tts_voice_design_model_path" toml:"tts_voice_design_model_path"`

	// Model runtime sidecar endpoint (TTS placement and generation).
	RuntimeURL string `json:"runtime_url" yaml:"runtime_url" toml:"runtime_url"`

	// STT model settings.
	STTModelName   string `json:"stt_model_name" yaml:"stt_model_name" toml:"stt_model_name"`
	STTDevice      string `json:"stt_device" yaml:"stt_device" toml:"stt_device"`
	STTComputeType string `json:"stt_compute_type" yaml:"stt_compute_type" toml:"stt_compute_type"`
	STTServerURL   string `json:"stt_server_url" yaml:"stt_server_url" toml:"stt_server_url"`
	STTBeamSize    int    `json:"stt_beam_size" yaml:"stt_beam_size" toml:"stt_beam_size"`
	STTBestOf      int    `json:"stt_best_of" yaml:"stt_best_of" toml:"stt_best_of"`
	STTVADFilter   bool   `json:"stt_vad_filter" yaml:"stt_vad_filter" toml:"stt_vad_filter"`

	// Idle offload.
	OffloadEnabled              bool `json:"offload_enabled" yaml:"offload_enabled" toml:"offload_enabled"`
	IdleTimeoutSeconds          int  `json:"idle_timeout_seconds" yaml:"idle_timeout_seconds" toml:"idle_timeout_seconds"`
	OffloadCheckIntervalSeconds int  `json:"offload_check_interval_seconds" yaml:"offload_check_interval_seconds" toml:"offload_check_interval_seconds"`

	// Rate limiting (fixed window per client IP).
	RateLimitRequests      int `json:"rate_limit_requests" yaml:"rate_limit_requests" toml:"rate_limit_requests"`
	RateLimitWindowSeconds int `json:"rate_limit_window_seconds" yaml:"rate_limit_window_seconds" toml:"rate_limit_window_seconds"`

	// ElevenLabs backend settings (backend = "elevenlabs").
	ElevenLabsAPIKey  string `json:"elevenlabs_api_key" yaml:"elevenlabs_api_key" toml:"elevenlabs_api_key"`
	ElevenLabsVoiceID string `json:"elevenlabs_voice_id" yaml:"elevenlabs_voice_id" toml:"elevenlabs_voice_id"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
