package ffmpeg

import (
	"encoding/binary"
	"time"
)

// AudioBuffer holds interleaved signed 16-bit little-endian PCM samples.
// It carries no header; sample rate and channel count are the caller's.
type AudioBuffer []byte

// Samples decodes the buffer into int16 samples. A trailing odd byte is ignored.
func (b AudioBuffer) Samples() []int16 {
	samples := make([]int16, len(b)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}
	return samples
}

// Frames reports how many multi-channel sample frames the buffer holds.
func (b AudioBuffer) Frames(channels int) int {
	if channels <= 0 {
		return 0
	}
	return len(b) / (2 * channels)
}

// Duration reports the playback length of the buffer.
func (b AudioBuffer) Duration(sampleRate, channels int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	frames := b.Frames(channels)
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}
