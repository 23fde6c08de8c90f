//go:build !whispercpp

package manager

import (
	"context"
	"errors"
)

// NewWhisperCppRuntime is the no-CGO stub. Build with -tags whispercpp and
// the whisper.cpp static library available to enable in-process transcription.
func NewWhisperCppRuntime() STTRuntime { return whisperCppStub{} }

type whisperCppStub struct{}

func (whisperCppStub) Load(context.Context, STTModelConfig) (STTModel, error) {
	return nil, errors.New("whispercpp support not built; rebuild with -tags whispercpp or use the server backend")
}
