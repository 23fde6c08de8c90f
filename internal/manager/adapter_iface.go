package manager

import "context"

// TTSRuntime abstracts the process that hosts text-to-speech model instances.
// Concrete implementations load model artifacts onto the accelerator and hand
// back a handle for inference and placement control.
type TTSRuntime interface {
	// Load instantiates the model artifacts at modelPath directly onto the
	// accelerator device.
	Load(ctx context.Context, modelPath string) (TTSModel, error)
}

// TTSModel is one loaded text-to-speech model instance.
type TTSModel interface {
	// CreateVoiceClonePrompt derives a conditioning prompt from reference
	// audio and its transcript.
	CreateVoiceClonePrompt(ctx context.Context, refAudioPath, refText string) (VoicePrompt, error)
	// GenerateVoiceClone synthesizes text in the voice described by prompt.
	// The prompt must be the exact value returned by CreateVoiceClonePrompt.
	GenerateVoiceClone(ctx context.Context, text string, prompt VoicePrompt) (Waveform, error)
	// GenerateVoiceDesign synthesizes text in a brand-new voice matching the
	// instruct description.
	GenerateVoiceDesign(ctx context.Context, text, instruct string) (Waveform, error)
	// MoveToHost transfers the weights to host memory and releases the freed
	// accelerator memory back to the device.
	MoveToHost(ctx context.Context) error
	// MoveToAccelerator transfers host-resident weights back to the
	// accelerator.
	MoveToAccelerator(ctx context.Context) error
	// Close releases the model.
	Close() error
}

// STTModelConfig selects the transcription model to load.
type STTModelConfig struct {
	// Model is a model name (tiny, base, small, ...) or an on-disk path,
	// depending on the runtime.
	Model       string
	Device      string
	ComputeType string
}

// TranscribeOptions are passed through to the transcription capability.
type TranscribeOptions struct {
	BeamSize  int
	BestOf    int
	VADFilter bool
	// Language hint; empty means auto-detect.
	Language string
}

// TranscriptSegment is one recognized span of speech.
type TranscriptSegment struct {
	Text  string
	Start float64
	End   float64
}

// TranscribeResult is the raw transcription capability output.
type TranscribeResult struct {
	Segments []TranscriptSegment
	Language string
	// Duration is the model's own estimate of the total audio length in
	// seconds.
	Duration float64
}

// STTRuntime abstracts the speech-to-text backend.
type STTRuntime interface {
	Load(ctx context.Context, cfg STTModelConfig) (STTModel, error)
}

// STTModel is one loaded transcription model instance.
type STTModel interface {
	// Transcribe recognizes mono 16 kHz float32 PCM in [-1, 1].
	Transcribe(ctx context.Context, samples []float32, opts TranscribeOptions) (TranscribeResult, error)
	Close() error
}
