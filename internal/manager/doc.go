// Package manager owns the lifecycle of the speech models: loading them onto
// the accelerator at startup, dispatching synthesis and transcription against
// them, and offloading them to host memory when the service sits idle. It is
// structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: placement state, prompt and waveform types.
//   - errors.go: error types and helpers (IsVoiceNotFound, IsModelNotReady, ...).
//   - startup.go: Startup/Shutdown lifecycle.
//   - placement.go: the placement state machine and its single transition lock.
//   - prompts.go: the voice prompt cache (precompute, lookup, replace).
//   - speech.go: Synthesize.
//   - voices.go: CreateVoice, ReloadVoicePrompts, voice listings.
//   - transcribe.go: Transcribe.
//   - offload.go: the background idle monitor.
//   - status_report.go: the Health snapshot.
//   - events.go / eventpub_memory.go: lifecycle event publishing.
//
// Model runtimes are external collaborators behind the interfaces in
// adapter_iface.go:
//
//   - adapter_qwen_server.go talks to the TTS model runtime sidecar over HTTP.
//   - adapter_whisper_server.go talks to a whisper-server sidecar over HTTP.
//   - adapter_whispercpp.go runs whisper.cpp in process. Enabled with
//     `-tags=whispercpp`; a no-CGO stub (adapter_whispercpp_stub.go) keeps
//     default builds CGO-free.
//
// External packages should treat this package as the orchestration layer and
// use public methods only. Internal types are subject to change.
package manager
