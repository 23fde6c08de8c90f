// Package audio is the byte-level codec boundary of the service: it wraps raw
// model waveforms in RIFF/WAV containers and decodes uploaded audio to the
// mono 16 kHz float PCM the transcription model expects.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	// bitsPerSample is fixed at 16: every container this service produces or
	// parses natively carries 16-bit signed little-endian PCM.
	bitsPerSample = 16

	// TranscribeSampleRate is the sample rate the transcription model expects.
	TranscribeSampleRate = 16000
)

// EncodeWAV wraps float32 samples in [-1, 1] into a standard RIFF/WAV
// container with 16-bit PCM payload.
func EncodeWAV(samples []float32, sampleRate int) []byte {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		v := math.Round(float64(s) * 32767)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(v)))
	}
	return EncodePCM16WAV(pcm, sampleRate, 1)
}

// EncodePCM16WAV wraps raw 16-bit signed little-endian PCM data in a standard
// RIFF/WAV container.
func EncodePCM16WAV(pcm []byte, sampleRate, channels int) []byte {
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8
	dataSize := len(pcm)

	buf := make([]byte, 44+dataSize)

	// RIFF chunk descriptor
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize)) // file size − 8
	copy(buf[8:12], "WAVE")

	// fmt sub-chunk
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)                 // sub-chunk size (PCM)
	binary.LittleEndian.PutUint16(buf[20:22], 1)                  // audio format: PCM
	binary.LittleEndian.PutUint16(buf[22:24], uint16(channels))   // num channels
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate)) // sample rate
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))   // byte rate
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign)) // block align
	binary.LittleEndian.PutUint16(buf[34:36], bitsPerSample)      // bits per sample

	// data sub-chunk
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))
	copy(buf[44:], pcm)

	return buf
}

// wavInfo holds the format metadata extracted from a RIFF/WAVE header.
type wavInfo struct {
	DataOffset int // byte offset of the first PCM sample
	DataSize   int
	SampleRate int
	Channels   int
}

var errNotWAV = errors.New("audio: not a RIFF/WAVE container")

// parseWAV walks the RIFF chunks in wav and returns the location and format
// of the PCM payload. Walking the chunks is more robust than assuming a fixed
// 44-byte header because the fmt chunk size may vary and extra chunks (LIST,
// fact) may precede data.
func parseWAV(wav []byte) (wavInfo, error) {
	if len(wav) < 12 || string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return wavInfo{}, errNotWAV
	}

	var info wavInfo
	foundFmt := false

	offset := 12
	for offset+8 <= len(wav) {
		chunkID := string(wav[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(wav[offset+4 : offset+8]))

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 || offset+8+16 > len(wav) {
				return wavInfo{}, errors.New("audio: truncated fmt chunk")
			}
			fmtData := wav[offset+8:]
			format := binary.LittleEndian.Uint16(fmtData[0:2])
			if format != 1 { // PCM
				return wavInfo{}, fmt.Errorf("audio: unsupported WAV format tag %d", format)
			}
			if bits := binary.LittleEndian.Uint16(fmtData[14:16]); bits != bitsPerSample {
				return wavInfo{}, fmt.Errorf("audio: unsupported bit depth %d", bits)
			}
			info.Channels = int(binary.LittleEndian.Uint16(fmtData[2:4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(fmtData[4:8]))
			foundFmt = true
		case "data":
			if !foundFmt {
				return wavInfo{}, errors.New("audio: data chunk before fmt chunk")
			}
			info.DataOffset = offset + 8
			info.DataSize = chunkSize
			if info.DataOffset+info.DataSize > len(wav) {
				info.DataSize = len(wav) - info.DataOffset
			}
			return info, nil
		}

		// Chunks are word-aligned: pad by 1 if the size is odd.
		offset += 8 + chunkSize
		if chunkSize%2 != 0 {
			offset++
		}
	}
	return wavInfo{}, errors.New("audio: missing data chunk")
}

// pcm16ToFloat32Mono converts interleaved 16-bit PCM to mono float32 in
// [-1, 1], averaging channels.
func pcm16ToFloat32Mono(pcm []byte, channels int) []float32 {
	if channels <= 0 {
		channels = 1
	}
	frames := len(pcm) / 2 / channels
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			s := int16(binary.LittleEndian.Uint16(pcm[(i*channels+c)*2:]))
			sum += float64(s)
		}
		out[i] = float32(sum / float64(channels) / 32768.0)
	}
	return out
}

// resampleLinear converts samples from srcRate to dstRate with linear
// interpolation. Adequate for speech fed into a VAD-filtered recognizer.
func resampleLinear(samples []float32, srcRate, dstRate int) []float32 {
	if srcRate == dstRate || len(samples) == 0 {
		return samples
	}
	n := int(float64(len(samples)) * float64(dstRate) / float64(srcRate))
	if n == 0 {
		return nil
	}
	out := make([]float32, n)
	ratio := float64(srcRate) / float64(dstRate)
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := float32(pos - float64(j))
		out[i] = samples[j]*(1-frac) + samples[j+1]*frac
	}
	return out
}
