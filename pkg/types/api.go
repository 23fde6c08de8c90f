package types

// SpeechRequest is the OpenAI-compatible /v1/audio/speech payload with the
// agent extension field.
type SpeechRequest struct {
	// Model name (tts-1, tts-1-hd). Accepted for compatibility, not used.
	// example: tts-1
	Model string `json:"model,omitempty" example:"tts-1"`
	// Required text to synthesize. Limited to 4096 characters.
	// example: Hello from the voice gateway.
	Input string `json:"input" example:"Hello from the voice gateway."`
	// OpenAI voice name. Accepted for compatibility; use agent instead.
	// example: alloy
	Voice string `json:"voice,omitempty" example:"alloy"`
	// Response format. Local synthesis always produces wav.
	// example: wav
	ResponseFormat string `json:"response_format,omitempty" example:"wav"`
	// Playback speed (0.25 to 4.0). Not supported by local synthesis.
	// example: 1.0
	Speed float64 `json:"speed,omitempty" example:"1.0"`
	// Agent whose voice to use. Empty selects the catalog default voice.
	// example: da
	Agent string `json:"agent,omitempty" example:"da"`
}

// CreateVoiceRequest is the POST /v1/voices payload.
type CreateVoiceRequest struct {
	// Agent name; used as the catalog key and the voice file name.
	// Alphanumeric and underscores only.
	// example: narrator
	AgentName string `json:"agent_name" example:"narrator"`
	// Voice description handed to the voice design model.
	// example: Female, mid-thirties. Warm, smooth timbre.
	Instruct string `json:"instruct" example:"Female, mid-thirties. Warm, smooth timbre."`
}

// VoiceInfo describes one catalog entry in GET /v1/voices.
type VoiceInfo struct {
	Name        string `json:"name" example:"da"`
	File        string `json:"file" example:"da.wav"`
	Description string `json:"description" example:"Default assistant voice"`
	// Whether a conditioning prompt is cached for this voice.
	HasPrompt bool `json:"has_prompt" example:"true"`
}

// VoicesResponse is returned by GET /v1/voices.
type VoicesResponse struct {
	Voices       []VoiceInfo `json:"voices"`
	DefaultVoice string      `json:"default_voice" example:"da"`
	Total        int         `json:"total" example:"1"`
}

// ReloadResponse is returned by POST /v1/voices/reload.
type ReloadResponse struct {
	Status       string `json:"status" example:"success"`
	VoicesLoaded int    `json:"voices_loaded" example:"3"`
	Message      string `json:"message" example:"Voice configuration reloaded successfully"`
}

// Transcription is the manager-level transcription result.
type Transcription struct {
	Text     string  `json:"text"`
	Language string  `json:"language" example:"en"`
	// Total audio duration in seconds as estimated by the model.
	Duration float64 `json:"duration" example:"2.4"`
}

// TranscriptionResponse is the default json response for
// POST /v1/audio/transcriptions.
type TranscriptionResponse struct {
	Text string `json:"text"`
}

// TranscriptionSegment mirrors the OpenAI verbose_json segment shape. The
// local backend produces a single synthetic segment spanning the whole input.
type TranscriptionSegment struct {
	ID               int     `json:"id"`
	Seek             int     `json:"seek"`
	Start            float64 `json:"start"`
	End              float64 `json:"end"`
	Text             string  `json:"text"`
	Tokens           []int   `json:"tokens"`
	Temperature      float64 `json:"temperature"`
	AvgLogprob       float64 `json:"avg_logprob"`
	CompressionRatio float64 `json:"compression_ratio"`
	NoSpeechProb     float64 `json:"no_speech_prob"`
}

// VerboseTranscriptionResponse is the verbose_json response shape.
type VerboseTranscriptionResponse struct {
	Task     string                 `json:"task" example:"transcribe"`
	Language string                 `json:"language" example:"en"`
	Duration float64                `json:"duration" example:"2.4"`
	Text     string                 `json:"text"`
	Segments []TranscriptionSegment `json:"segments"`
}

// ModelsHealth reports which model references are currently held.
type ModelsHealth struct {
	TTSBase        bool `json:"tts_base"`
	TTSVoiceDesign bool `json:"tts_voice_design"`
	STT            bool `json:"stt"`
}

// OffloadStatus reports idle-offload state for /health.
type OffloadStatus struct {
	Enabled bool `json:"enabled"`
	// Current placement: unloaded, host or accelerator.
	// example: accelerator
	Location                string  `json:"location" example:"accelerator"`
	IdleTimeoutSeconds      int     `json:"idle_timeout_seconds" example:"300"`
	SecondsSinceLastRequest float64 `json:"seconds_since_last_request" example:"12.5"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status       string        `json:"status" example:"healthy"`
	Host         string        `json:"host" example:"127.0.0.1"`
	Port         int           `json:"port" example:"8001"`
	Models       ModelsHealth  `json:"models"`
	VoicesLoaded int           `json:"voices_loaded" example:"3"`
	AuthEnabled  bool          `json:"auth_enabled" example:"false"`
	ModelOffload OffloadStatus `json:"model_offload"`
}

// ServiceInfo is the static descriptor served at GET /.
type ServiceInfo struct {
	Name        string            `json:"name" example:"voiced"`
	Description string            `json:"description"`
	Version     string            `json:"version" example:"1.0.0"`
	Endpoints   map[string]string `json:"endpoints"`
}

// ErrorResponse is the JSON error payload used by every endpoint.
type ErrorResponse struct {
	// Human-readable error message. No internal details are exposed.
	// example: Input text is empty
	Detail string `json:"detail" example:"Input text is empty"`
}
