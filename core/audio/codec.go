// Package audio implements the canonical audio representation: 16-bit PCM
// WAV at the source sample rate, decoded and encoded with go-audio.
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// BitDepth is the canonical sample depth. Every asset is normalized to
// 16-bit PCM on ingestion; sample rate and channel count follow the source.
const BitDepth = 16

// Format describes a canonical asset.
type Format struct {
	SampleRate  int
	NumChannels int
	BitDepth    int
	TotalFrames int
}

// Duration returns the decoded length in seconds.
func (f Format) Duration() float64 {
	if f.SampleRate == 0 {
		return 0
	}
	return float64(f.TotalFrames) / float64(f.SampleRate)
}

// Asset is a fully decoded canonical asset: interleaved PCM samples plus
// their format.
type Asset struct {
	Format  Format
	Samples []int // Interleaved, NumChannels samples per frame
}

// Info reads the WAV header of the asset at path without decoding samples.
func Info(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Format{}, fmt.Errorf("failed to open asset: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return Format{}, errors.New("invalid WAV file format")
	}

	dur, err := decoder.Duration()
	if err != nil {
		return Format{}, fmt.Errorf("failed to read WAV duration: %w", err)
	}
	frames := int(dur.Seconds() * float64(decoder.SampleRate))

	return Format{
		SampleRate:  int(decoder.SampleRate),
		NumChannels: int(decoder.NumChans),
		BitDepth:    int(decoder.BitDepth),
		TotalFrames: frames,
	}, nil
}

// ReadPCM decodes the whole asset at path into memory.
func ReadPCM(path string) (*Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return nil, errors.New("invalid WAV file format")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode PCM: %w", err)
	}

	numChans := buf.Format.NumChannels
	if numChans == 0 {
		numChans = 1
	}

	return &Asset{
		Format: Format{
			SampleRate:  buf.Format.SampleRate,
			NumChannels: numChans,
			BitDepth:    int(decoder.BitDepth),
			TotalFrames: len(buf.Data) / numChans,
		},
		Samples: buf.Data,
	}, nil
}

// EncodeWAV encodes interleaved PCM samples into an in-memory WAV buffer in
// the canonical export format.
func EncodeWAV(samples []int, format Format) ([]byte, error) {
	buf := &seekableBuffer{}
	enc := wav.NewEncoder(buf, format.SampleRate, BitDepth, format.NumChannels, 1)

	if err := enc.Write(&gaudio.IntBuffer{
		Data:   samples,
		Format: &gaudio.Format{SampleRate: format.SampleRate, NumChannels: format.NumChannels},
	}); err != nil {
		return nil, fmt.Errorf("failed to write WAV samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return buf.Bytes(), nil
}

// seekableBuffer is an in-memory io.WriteSeeker; the WAV encoder seeks back
// to patch chunk sizes when closed.
type seekableBuffer struct {
	data []byte
	pos  int
}

func (b *seekableBuffer) Write(p []byte) (int, error) {
	end := b.pos + len(p)
	if end > len(b.data) {
		if end > cap(b.data) {
			grown := make([]byte, len(b.data), end*2)
			copy(grown, b.data)
			b.data = grown
		}
		b.data = b.data[:end]
	}
	copy(b.data[b.pos:], p)
	b.pos = end
	return len(p), nil
}

func (b *seekableBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(b.pos) + offset
	case io.SeekEnd:
		abs = int64(len(b.data)) + offset
	default:
		return 0, errors.New("seekableBuffer: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("seekableBuffer: negative position")
	}
	b.pos = int(abs)
	return abs, nil
}

func (b *seekableBuffer) Bytes() []byte {
	return b.data
}
