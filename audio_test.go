package oairealtime

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"testing"
	"time"
)

func TestAudioAssembler(t *testing.T) {
	assembler := NewAudioAssembler()

	delta1 := ResponseAudioDelta{
		ResponseID:  "resp_123",
		DeltaBase64: base64.StdEncoding.EncodeToString([]byte("Hello")),
	}
	delta2 := ResponseAudioDelta{
		ResponseID:  "resp_123",
		DeltaBase64: base64.StdEncoding.EncodeToString([]byte(" World")),
	}

	if err := assembler.OnDelta(delta1); err != nil {
		t.Fatalf("failed to add first delta: %v", err)
	}
	if err := assembler.OnDelta(delta2); err != nil {
		t.Fatalf("failed to add second delta: %v", err)
	}

	complete := assembler.OnDone("resp_123")
	if string(complete) != "Hello World" {
		t.Errorf("expected %q, got %q", "Hello World", string(complete))
	}

	// Verify data is cleaned up
	remaining := assembler.OnDone("resp_123")
	if len(remaining) != 0 {
		t.Errorf("expected empty data after cleanup, got %v", remaining)
	}
}

func TestAudioAssembler_InvalidBase64(t *testing.T) {
	assembler := NewAudioAssembler()

	delta := ResponseAudioDelta{
		ResponseID:  "resp_123",
		DeltaBase64: "invalid-base64!",
	}

	if err := assembler.OnDelta(delta); err == nil {
		t.Error("expected error for invalid base64, got nil")
	}
}

func TestAppendPCM16_Validation(t *testing.T) {
	mockServer := NewMockServer(t)
	defer mockServer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Dial(ctx, CreateMockConfig(mockServer.URL()))
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer client.Close()

	// Odd byte counts are not valid PCM16
	if err := client.AppendPCM16(ctx, []byte{0x01, 0x02, 0x03}); err == nil {
		t.Error("expected error for odd-length PCM data")
	}

	// Empty data is a no-op, not an error
	if err := client.AppendPCM16(ctx, nil); err != nil {
		t.Errorf("unexpected error for empty data: %v", err)
	}

	// Valid even-length data sends cleanly
	if err := client.AppendPCM16(ctx, []byte{0x01, 0x02, 0x03, 0x04}); err != nil {
		t.Errorf("unexpected error for valid data: %v", err)
	}

	// Commit and clear piggyback on the same connection
	if err := client.CommitInput(ctx); err != nil {
		t.Errorf("unexpected commit error: %v", err)
	}
	if err := client.ClearInput(ctx); err != nil {
		t.Errorf("unexpected clear error: %v", err)
	}
}

func TestPCM16BytesFor(t *testing.T) {
	tests := []struct {
		name       string
		ms         int
		sampleRate int
		expected   int
	}{
		{
			name:       "200ms at 24kHz",
			ms:         200,
			sampleRate: 24000,
			expected:   9600, // (200 * 24000 * 2) / 1000
		},
		{
			name:       "1000ms at 16kHz",
			ms:         1000,
			sampleRate: 16000,
			expected:   32000, // (1000 * 16000 * 2) / 1000
		},
		{
			name:       "20ms at 8kHz",
			ms:         20,
			sampleRate: 8000,
			expected:   320,
		},
		{
			name:       "0ms",
			ms:         0,
			sampleRate: 24000,
			expected:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PCM16BytesFor(tt.ms, tt.sampleRate)
			if result != tt.expected {
				t.Errorf("expected %d bytes, got %d", tt.expected, result)
			}
		})
	}
}

func TestWAVFromPCM16Mono(t *testing.T) {
	// 4 bytes = 2 little-endian 16-bit samples
	pcmData := []byte{0x00, 0x01, 0xFF, 0xFE}
	sampleRate := 24000

	wav := WAVFromPCM16Mono(pcmData, sampleRate)

	if len(wav) != 44+len(pcmData) {
		t.Errorf("expected WAV length %d, got %d", 44+len(pcmData), len(wav))
	}

	if !bytes.Equal(wav[0:4], []byte("RIFF")) {
		t.Error("missing RIFF header")
	}
	if !bytes.Equal(wav[8:12], []byte("WAVE")) {
		t.Error("missing WAVE format")
	}
	if !bytes.Equal(wav[12:16], []byte("fmt ")) {
		t.Error("missing fmt chunk")
	}
	if !bytes.Equal(wav[36:40], []byte("data")) {
		t.Error("missing data chunk")
	}

	if got := binary.LittleEndian.Uint32(wav[24:28]); got != uint32(sampleRate) {
		t.Errorf("expected sample rate %d, got %d", sampleRate, got)
	}
	if got := binary.LittleEndian.Uint16(wav[22:24]); got != 1 {
		t.Errorf("expected mono, got %d channels", got)
	}
	if got := binary.LittleEndian.Uint16(wav[34:36]); got != 16 {
		t.Errorf("expected 16 bits per sample, got %d", got)
	}

	if !bytes.Equal(wav[44:], pcmData) {
		t.Error("PCM data not correctly appended")
	}
}

func TestWAVFromPCM16Mono_EmptyData(t *testing.T) {
	wav := WAVFromPCM16Mono([]byte{}, 24000)

	// Should still create valid WAV header
	if len(wav) != 44 {
		t.Errorf("expected WAV length 44 for empty PCM, got %d", len(wav))
	}
}

func TestWAVFromPCM16Mono_RoundTripsThroughDecoder(t *testing.T) {
	samples := []int16{0, 1000, -1000, 32767, -32768}
	wav := WAVFromPCM16Mono(PCM16Bytes(samples), 8000)

	decoded, err := DecodeWAV(bytes.NewReader(wav))
	if err != nil {
		t.Fatalf("failed to decode generated WAV: %v", err)
	}
	if decoded.SampleRate != 8000 {
		t.Errorf("expected sample rate 8000, got %d", decoded.SampleRate)
	}
	if len(decoded.Samples) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(decoded.Samples))
	}
	for i, want := range samples {
		if decoded.Samples[i] != want {
			t.Errorf("sample %d: expected %d, got %d", i, want, decoded.Samples[i])
		}
	}
}

func BenchmarkAudioAssembler(b *testing.B) {
	assembler := NewAudioAssembler()
	testData := base64.StdEncoding.EncodeToString(make([]byte, 1024))

	delta := ResponseAudioDelta{
		ResponseID:  "resp_123",
		DeltaBase64: testData,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		delta.ResponseID = fmt.Sprintf("resp_%d", i)
		_ = assembler.OnDelta(delta)
		assembler.OnDone(delta.ResponseID)
	}
}

func BenchmarkWAVFromPCM16Mono(b *testing.B) {
	pcmData := make([]byte, 9600) // 200ms at 24kHz

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = WAVFromPCM16Mono(pcmData, 24000)
	}
}
