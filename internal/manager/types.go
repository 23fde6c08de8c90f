package manager

// Placement tracks which memory tier currently holds the TTS model weights.
// There is exactly one placement per Manager: the accelerator-bound models
// always move together.
type Placement int

const (
	PlacementUnloaded Placement = iota
	PlacementHost
	PlacementAccelerator
)

func (p Placement) String() string {
	switch p {
	case PlacementAccelerator:
		return "accelerator"
	case PlacementHost:
		return "host"
	default:
		return "unloaded"
	}
}

// PromptItem is one element of a voice conditioning prompt. Its payload is
// produced by the model runtime and passed back verbatim; the manager never
// inspects it.
type PromptItem struct {
	RefAudio string `json:"ref_audio,omitempty"`
	RefText  string `json:"ref_text,omitempty"`
	// Data carries the runtime's opaque conditioning blob, base64-encoded.
	Data string `json:"data,omitempty"`
}

// VoicePrompt is the ordered prompt-item sequence steering voice cloning.
// It is always used as-is: wrapping a prompt inside another sequence silently
// breaks generation, so callers must pass the cached value through unchanged.
type VoicePrompt []PromptItem

// Waveform is a raw model output: mono float32 samples in [-1, 1].
type Waveform struct {
	Samples    []float32
	SampleRate int
}
