package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const outputRate = beep.SampleRate(48000)

// Output plays decoded reply audio.
type Output interface {
	Play(s beep.Streamer, format beep.Format) error
	Clear()
}

// Device plays through the default sound card. The card is opened on first
// use; a failed open is remembered and returned on every later Play.
type Device struct {
	mu          sync.Mutex
	initialized bool
	initErr     error
}

func NewDevice() *Device {
	return &Device{}
}

func (d *Device) init() error {
	if d.initialized || d.initErr != nil {
		return d.initErr
	}
	if err := speaker.Init(outputRate, outputRate.N(100*time.Millisecond)); err != nil {
		d.initErr = err
		return err
	}
	d.initialized = true
	return nil
}

// Play replaces whatever is playing with s.
func (d *Device) Play(s beep.Streamer, format beep.Format) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.init(); err != nil {
		return err
	}
	if format.SampleRate != outputRate {
		s = beep.Resample(4, format.SampleRate, outputRate, s)
	}
	speaker.Clear()
	speaker.Play(s)
	return nil
}

// Clear silences the device.
func (d *Device) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.initialized {
		speaker.Clear()
	}
}
