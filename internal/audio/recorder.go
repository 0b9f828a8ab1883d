// Package audio provides microphone capture and WAV file handling.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/habla-dev/habla/pkg/logger"
)

// Recorder captures mono 16 kHz audio from the default input device.
type Recorder struct {
	mu      sync.Mutex
	samples []float32
	logger  *logger.Logger
}

// NewRecorder initializes the audio subsystem. Callers must Close the
// recorder to release it.
func NewRecorder(log *logger.Logger) (*Recorder, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize audio subsystem: %w", err)
	}
	return &Recorder{logger: log.Named("recorder")}, nil
}

// Record captures audio for the given duration and returns the clip. The
// call blocks for the full duration; the audio subsystem appends samples
// from its own callback thread into a shared buffer.
func (r *Recorder) Record(seconds int) (*Clip, error) {
	if seconds <= 0 {
		seconds = 5
	}

	r.mu.Lock()
	r.samples = make([]float32, 0, SampleRate*seconds)
	r.mu.Unlock()

	stream, err := portaudio.OpenDefaultStream(Channels, 0, float64(SampleRate), FramesPerBuffer, r.onSamples)
	if err != nil {
		return nil, fmt.Errorf("failed to open input stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("failed to start input stream: %w", err)
	}

	r.logger.Info("Recording started", logger.Int("seconds", seconds))
	time.Sleep(time.Duration(seconds) * time.Second)

	if err := stream.Stop(); err != nil {
		r.logger.Warn("Failed to stop input stream", logger.Error(err))
	}

	r.mu.Lock()
	samples := r.samples
	r.samples = nil
	r.mu.Unlock()

	r.logger.Info("Recording complete", logger.Int("samples", len(samples)))
	return FromFloat32(samples, SampleRate), nil
}

// onSamples runs on the audio subsystem's thread for each filled buffer.
func (r *Recorder) onSamples(in []float32) {
	r.mu.Lock()
	r.samples = append(r.samples, in...)
	r.mu.Unlock()
}

// Close releases the audio subsystem.
func (r *Recorder) Close() {
	if err := portaudio.Terminate(); err != nil {
		r.logger.Warn("Failed to terminate audio subsystem", logger.Error(err))
	}
}
