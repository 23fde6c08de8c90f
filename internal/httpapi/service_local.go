package httpapi

import (
	"context"

	"voiced/internal/manager"
	"voiced/pkg/types"
)

// LocalService adapts the in-process manager to the gateway Service
// interface. Local synthesis always produces WAV regardless of the requested
// response format; model and speed are accepted for compatibility and
// ignored.
type LocalService struct {
	Manager *manager.Manager
}

var _ Service = (*LocalService)(nil)

func (s *LocalService) Speech(ctx context.Context, req types.SpeechRequest) (SpeechResult, error) {
	out, err := s.Manager.Synthesize(ctx, req.Input, req.Agent)
	if err != nil {
		return SpeechResult{}, err
	}
	return SpeechResult{Audio: out.WAV, ContentType: "audio/wav", Agent: out.Agent}, nil
}

func (s *LocalService) Transcribe(ctx context.Context, audio []byte, language string) (types.Transcription, error) {
	return s.Manager.Transcribe(ctx, audio, language)
}

func (s *LocalService) CreateVoice(ctx context.Context, agentName, instruct string) (SpeechResult, error) {
	out, err := s.Manager.CreateVoice(ctx, agentName, instruct)
	if err != nil {
		return SpeechResult{}, err
	}
	return SpeechResult{Audio: out.WAV, ContentType: "audio/wav", Agent: out.Agent}, nil
}

func (s *LocalService) ListVoices() types.VoicesResponse { return s.Manager.ListVoices() }

func (s *LocalService) ReloadVoices(ctx context.Context) (int, error) {
	return s.Manager.ReloadVoicePrompts(ctx)
}

func (s *LocalService) Health() types.HealthResponse { return s.Manager.Health() }

func (s *LocalService) Ready() bool { return s.Manager.Ready() }
