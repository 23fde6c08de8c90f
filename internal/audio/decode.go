package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// DecodeToMono16k decodes an uploaded audio container into mono float32 PCM
// at TranscribeSampleRate, normalized to [-1, 1]. RIFF/WAV input is decoded
// natively; any other container falls back to ffmpeg when available.
func DecodeToMono16k(ctx context.Context, data []byte) ([]float32, error) {
	if len(data) == 0 {
		return nil, errors.New("audio: empty input")
	}
	info, err := parseWAV(data)
	if err == nil {
		mono := pcm16ToFloat32Mono(data[info.DataOffset:info.DataOffset+info.DataSize], info.Channels)
		return resampleLinear(mono, info.SampleRate, TranscribeSampleRate), nil
	}
	if !errors.Is(err, errNotWAV) {
		return nil, err
	}
	return decodeWithFFmpeg(ctx, data)
}

// decodeWithFFmpeg shells out to ffmpeg to transcode arbitrary containers
// (mp3, ogg, m4a, ...) to raw mono 16 kHz s16le on stdout.
func decodeWithFFmpeg(ctx context.Context, data []byte) ([]float32, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, errors.New("audio: unsupported container and ffmpeg not available")
	}
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-nostats", "-loglevel", "0",
		"-i", "pipe:0",
		"-f", "s16le", "-ar", fmt.Sprint(TranscribeSampleRate), "-ac", "1",
		"pipe:1",
	)
	cmd.Stdin = bytes.NewReader(data)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("audio: ffmpeg decode: %w", err)
	}
	if out.Len() == 0 {
		return nil, errors.New("audio: ffmpeg produced no audio")
	}
	return pcm16ToFloat32Mono(out.Bytes(), 1), nil
}
