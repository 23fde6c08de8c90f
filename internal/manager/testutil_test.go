package manager

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"voiced/internal/audio"
	"voiced/internal/catalog"
)

// fakeTTSRuntime hands out fakeTTSModel instances and counts loads.
type fakeTTSRuntime struct {
	mu     sync.Mutex
	loads  int
	models []*fakeTTSModel
}

func (r *fakeTTSRuntime) Load(_ context.Context, modelPath string) (TTSModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	m := &fakeTTSModel{path: modelPath}
	r.models = append(r.models, m)
	return m, nil
}

func (r *fakeTTSRuntime) loadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads
}

// fakeTTSModel records every call so tests can assert on exact arguments.
type fakeTTSModel struct {
	mu   sync.Mutex
	path string

	clonePromptCalls int
	cloneCalls       int
	designCalls      int
	toHostCalls      int
	toAccelCalls     int
	closed           bool

	lastCloneText   string
	lastClonePrompt VoicePrompt
	designErr       error
}

func (m *fakeTTSModel) CreateVoiceClonePrompt(_ context.Context, refAudioPath, refText string) (VoicePrompt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clonePromptCalls++
	return VoicePrompt{{RefAudio: refAudioPath, RefText: refText, Data: "blob:" + refAudioPath}}, nil
}

func (m *fakeTTSModel) GenerateVoiceClone(_ context.Context, text string, prompt VoicePrompt) (Waveform, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cloneCalls++
	m.lastCloneText = text
	m.lastClonePrompt = prompt
	return sineWaveform(), nil
}

func (m *fakeTTSModel) GenerateVoiceDesign(_ context.Context, text, instruct string) (Waveform, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.designCalls++
	if m.designErr != nil {
		return Waveform{}, m.designErr
	}
	return sineWaveform(), nil
}

func (m *fakeTTSModel) MoveToHost(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toHostCalls++
	return nil
}

func (m *fakeTTSModel) MoveToAccelerator(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toAccelCalls++
	return nil
}

func (m *fakeTTSModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *fakeTTSModel) snapshot() (clonePrompt, clone, design, toHost, toAccel int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clonePromptCalls, m.cloneCalls, m.designCalls, m.toHostCalls, m.toAccelCalls
}

// fakeSTTRuntime returns a model producing preset segments.
type fakeSTTRuntime struct {
	segments []TranscriptSegment
	language string
}

func (r *fakeSTTRuntime) Load(context.Context, STTModelConfig) (STTModel, error) {
	return &fakeSTTModel{segments: r.segments, language: r.language}, nil
}

type fakeSTTModel struct {
	mu       sync.Mutex
	segments []TranscriptSegment
	language string
	lastOpts TranscribeOptions
	closed   bool
}

func (m *fakeSTTModel) Transcribe(_ context.Context, samples []float32, opts TranscribeOptions) (TranscribeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastOpts = opts
	return TranscribeResult{Segments: m.segments, Language: m.language}, nil
}

func (m *fakeSTTModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func sineWaveform() Waveform {
	samples := make([]float32, 1600)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * 440 * float64(i) / 24000))
	}
	return Waveform{Samples: samples, SampleRate: 24000}
}

// testWAV returns a valid mono 16 kHz WAV upload for transcription tests.
func testWAV() []byte {
	samples := make([]float32, audio.TranscribeSampleRate/10)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * 220 * float64(i) / float64(audio.TranscribeSampleRate)))
	}
	return audio.EncodeWAV(samples, audio.TranscribeSampleRate)
}

// newTestVoicesDir seeds a voices directory with registered agents and their
// reference audio files.
func newTestVoicesDir(t *testing.T, agents ...string) (*catalog.Catalog, string) {
	t.Helper()
	dir := t.TempDir()
	c := catalog.New(dir)
	for _, a := range agents {
		if err := c.Add(a, a+".wav", "test voice "+a, "instruct "+a); err != nil {
			t.Fatalf("seed catalog: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, a+".wav"), testWAV(), 0o644); err != nil {
			t.Fatalf("seed wav: %v", err)
		}
	}
	return c, dir
}

type testEnv struct {
	m   *Manager
	tts *fakeTTSRuntime
	stt *fakeSTTRuntime
	pub *MemoryPublisher
	dir string
}

// base returns the first loaded TTS model, which Startup uses for cloning.
func (e *testEnv) base(t *testing.T) *fakeTTSModel {
	t.Helper()
	e.tts.mu.Lock()
	defer e.tts.mu.Unlock()
	if len(e.tts.models) == 0 {
		t.Fatal("no TTS models loaded")
	}
	return e.tts.models[0]
}

func (e *testEnv) design(t *testing.T) *fakeTTSModel {
	t.Helper()
	e.tts.mu.Lock()
	defer e.tts.mu.Unlock()
	if len(e.tts.models) < 2 {
		t.Fatal("voice design model not loaded")
	}
	return e.tts.models[1]
}

func newTestEnv(t *testing.T, mutate func(*ManagerConfig), agents ...string) *testEnv {
	t.Helper()
	c, dir := newTestVoicesDir(t, agents...)
	tts := &fakeTTSRuntime{}
	stt := &fakeSTTRuntime{
		segments: []TranscriptSegment{{Text: " hello ", Start: 0, End: 1.2}},
		language: "en",
	}
	pub := NewMemoryPublisher()
	cfg := ManagerConfig{
		Catalog:         c,
		TTS:             tts,
		STT:             stt,
		BaseModelPath:   "/models/base",
		DesignModelPath: "/models/design",
		STTModel:        STTModelConfig{Model: "base", Device: "cpu", ComputeType: "int8"},
		Logger:          zerolog.Nop(),
		Publisher:       pub,
		ShutdownGrace:   time.Second,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	m := NewWithConfig(cfg)
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })
	return &testEnv{m: m, tts: tts, stt: stt, pub: pub, dir: dir}
}
