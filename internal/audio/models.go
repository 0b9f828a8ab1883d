package audio

import "time"

const (
	// SampleRate is the capture sample rate expected by the transcription backends.
	SampleRate = 16000
	// Channels is the capture channel count (mono).
	Channels = 1
	// BitDepth is the sample bit depth for WAV output.
	BitDepth = 16
	// FramesPerBuffer is the capture buffer size in frames.
	FramesPerBuffer = 1024
)

// Clip holds raw PCM audio samples with their format description.
type Clip struct {
	Samples    []int16
	Channels   int
	SampleRate int
}

// Duration returns the playback length of the clip.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 || c.Channels <= 0 {
		return 0
	}
	frames := len(c.Samples) / c.Channels
	return time.Duration(frames) * time.Second / time.Duration(c.SampleRate)
}

// FromFloat32 converts normalized float32 samples to a 16-bit mono clip.
// Samples outside [-1, 1] are clamped.
func FromFloat32(samples []float32, sampleRate int) *Clip {
	out := make([]int16, len(samples))
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		out[i] = int16(s * 32767.0)
	}
	return &Clip{
		Samples:    out,
		Channels:   1,
		SampleRate: sampleRate,
	}
}
