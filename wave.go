package oairealtime

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Wave decode errors.
var (
	// ErrNotWAV is returned when the input is not a RIFF/WAVE stream.
	ErrNotWAV = errors.New("oairealtime: not a RIFF/WAVE file")

	// ErrUnsupportedSampleWidth is returned for PCM sample widths other than
	// 16 or 32 bits. Callers that can degrade (like the WebRTC file source)
	// substitute silence instead of failing the flow.
	ErrUnsupportedSampleWidth = errors.New("oairealtime: unsupported WAV sample width")
)

// PCM holds decoded mono 16-bit audio samples.
type PCM struct {
	Samples    []int16 // Mono samples, little-endian origin
	SampleRate int     // Samples per second
}

// Duration returns the clip length in seconds.
func (p *PCM) Duration() float64 {
	if p.SampleRate == 0 {
		return 0
	}
	return float64(len(p.Samples)) / float64(p.SampleRate)
}

// DecodeWAV reads a RIFF/WAVE stream and returns mono PCM16 samples.
//
// Accepted inputs are linear PCM with 16- or 32-bit samples; any other width
// (8-bit, 24-bit, float) fails with ErrUnsupportedSampleWidth. Multi-channel
// audio is mixed down to mono by averaging each frame. 32-bit samples are
// narrowed to 16 bits by keeping the high 16 bits.
func DecodeWAV(r io.Reader) (*PCM, error) {
	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotWAV, err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, ErrNotWAV
	}

	var (
		haveFmt       bool
		audioFormat   uint16
		channels      int
		sampleRate    int
		bitsPerSample int
		data          []byte
	)

	// Walk chunks until the data chunk has been read. Unknown chunks
	// (LIST, fact, cue) are skipped.
	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(r, chunkHeader[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, fmt.Errorf("oairealtime: read WAV chunk header: %w", err)
		}
		chunkID := string(chunkHeader[0:4])
		chunkLen := binary.LittleEndian.Uint32(chunkHeader[4:8])

		switch chunkID {
		case "fmt ":
			if chunkLen < 16 {
				return nil, fmt.Errorf("oairealtime: fmt chunk too short (%d bytes)", chunkLen)
			}
			buf := make([]byte, chunkLen)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("oairealtime: read fmt chunk: %w", err)
			}
			audioFormat = binary.LittleEndian.Uint16(buf[0:2])
			channels = int(binary.LittleEndian.Uint16(buf[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(buf[4:8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(buf[14:16]))
			haveFmt = true
		case "data":
			buf := make([]byte, chunkLen)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("oairealtime: read data chunk: %w", err)
			}
			data = buf
		default:
			// Chunks are word-aligned; odd lengths carry a pad byte
			skip := int64(chunkLen)
			if chunkLen%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return nil, fmt.Errorf("oairealtime: skip %q chunk: %w", chunkID, err)
			}
		}

		if haveFmt && data != nil {
			break
		}
	}

	if !haveFmt {
		return nil, errors.New("oairealtime: WAV file has no fmt chunk")
	}
	if data == nil {
		return nil, errors.New("oairealtime: WAV file has no data chunk")
	}
	if audioFormat != 1 {
		return nil, fmt.Errorf("%w: audio format %d (only PCM supported)", ErrUnsupportedSampleWidth, audioFormat)
	}
	if channels < 1 {
		return nil, fmt.Errorf("oairealtime: invalid channel count %d", channels)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("oairealtime: invalid sample rate %d", sampleRate)
	}

	var samples []int16
	switch bitsPerSample {
	case 16:
		frameBytes := 2 * channels
		frames := len(data) / frameBytes
		samples = make([]int16, frames)
		for f := 0; f < frames; f++ {
			var sum int
			for ch := 0; ch < channels; ch++ {
				off := f*frameBytes + ch*2
				sum += int(int16(binary.LittleEndian.Uint16(data[off : off+2])))
			}
			samples[f] = int16(sum / channels)
		}
	case 32:
		frameBytes := 4 * channels
		frames := len(data) / frameBytes
		samples = make([]int16, frames)
		for f := 0; f < frames; f++ {
			var sum int64
			for ch := 0; ch < channels; ch++ {
				off := f*frameBytes + ch*4
				sum += int64(int32(binary.LittleEndian.Uint32(data[off : off+4])))
			}
			// Narrow to 16 bits by dropping the low 16
			samples[f] = int16((sum / int64(channels)) >> 16)
		}
	default:
		return nil, fmt.Errorf("%w: %d bits per sample (16 or 32 required)", ErrUnsupportedSampleWidth, bitsPerSample)
	}

	return &PCM{Samples: samples, SampleRate: sampleRate}, nil
}

// DecodeWAVFile decodes the wave file at path. See DecodeWAV.
func DecodeWAVFile(path string) (*PCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("oairealtime: open WAV file: %w", err)
	}
	defer f.Close()
	return DecodeWAV(f)
}

// ResamplePCM16 converts samples from one sample rate to another by nearest
// index mapping. The output length is exactly round(len(samples) * to / from).
//
// This is a deliberately cheap approximation that matches the loader's
// historical behavior; it aliases on real audio but is fine for short voice
// prompts. Same-rate input is returned unchanged.
func ResamplePCM16(samples []int16, from, to int) []int16 {
	if from == to || from <= 0 || to <= 0 || len(samples) == 0 {
		return samples
	}
	ratio := float64(to) / float64(from)
	outLen := int(math.Round(float64(len(samples)) * ratio))
	out := make([]int16, outLen)
	for i := range out {
		src := int(float64(i) / ratio)
		if src >= len(samples) {
			src = len(samples) - 1
		}
		out[i] = samples[src]
	}
	return out
}

// PCM16Bytes serializes mono samples as 16-bit little-endian PCM, the layout
// used by WAVFromPCM16Mono and the input_audio_buffer events.
func PCM16Bytes(samples []int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}
