package webrtc

// G.711 μ-law codec for the PCMU audio track. The realtime WebRTC endpoint
// negotiates PCMU at 8kHz; outbound PCM16 frames are companded to μ-law
// bytes before packetization and inbound payloads are expanded back.

const (
	ulawBias = 0x84 // 132, added before segment search
	ulawClip = 32635
)

// EncodeULaw compands PCM16 samples to G.711 μ-law, one byte per sample.
func EncodeULaw(samples []int16) []byte {
	out := make([]byte, len(samples))
	for i, s := range samples {
		out[i] = encodeULawSample(s)
	}
	return out
}

// DecodeULaw expands G.711 μ-law bytes to PCM16 samples.
func DecodeULaw(data []byte) []int16 {
	out := make([]int16, len(data))
	for i, b := range data {
		out[i] = decodeULawSample(b)
	}
	return out
}

func encodeULawSample(s int16) byte {
	sign := byte(0)
	v := int32(s)
	if v < 0 {
		v = -v
		sign = 0x80
	}
	if v > ulawClip {
		v = ulawClip
	}
	v += ulawBias

	// Segment number is the position of the highest set bit above bit 7
	seg := byte(0)
	for tmp := v >> 7; tmp > 1 && seg < 7; tmp >>= 1 {
		seg++
	}

	mantissa := byte((v >> (seg + 3)) & 0x0F)
	return ^(sign | (seg << 4) | mantissa)
}

func decodeULawSample(b byte) int16 {
	b = ^b
	sign := b & 0x80
	seg := (b >> 4) & 0x07
	mantissa := b & 0x0F

	v := ((int32(mantissa) << 3) + ulawBias) << seg
	v -= ulawBias
	if sign != 0 {
		v = -v
	}
	return int16(v)
}
