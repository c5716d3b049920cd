// Package audio plays the flip, match and win sounds. Each sound comes from
// <dir>/sounds/<name>.mp3 when that file decodes, and is synthesized
// otherwise. Playback problems are logged and never reach the caller.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/flip-match/log"
	"github.com/lixenwraith/flip-match/status"
)

const (
	DefaultSampleRate = 48000
	DefaultVolume     = 0.8
	resampleQuality   = 4
)

// Config selects the device rate, master volume and asset root
type Config struct {
	Enabled    bool
	Volume     float64
	SampleRate int
	// AssetsDir holds sounds/<name>.mp3
	AssetsDir string
	// Muted lists sound names that never play
	Muted []string
}

// SoundManager owns the speaker mixer and the decoded sounds
type SoundManager struct {
	mu          sync.Mutex
	cfg         Config
	rate        beep.SampleRate
	buffers     [kindCount]*beep.Buffer
	mixer       *beep.Mixer
	muted       [kindCount]bool
	initialized bool

	played *atomic.Int64
	faults *atomic.Int64
}

// NewSoundManager creates a manager; nothing touches the device until
// Initialize
func NewSoundManager(cfg Config) *SoundManager {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.Volume < 0 {
		cfg.Volume = 0
	}
	if cfg.Volume > 1 {
		cfg.Volume = 1
	}
	sm := &SoundManager{
		cfg:    cfg,
		rate:   beep.SampleRate(cfg.SampleRate),
		mixer:  &beep.Mixer{},
		played: status.Default.Counter("audio.played"),
		faults: status.Default.Counter("audio.faults"),
	}
	for _, name := range cfg.Muted {
		k, err := ParseKind(name)
		if err != nil {
			log.WithError(err).Warn("ignoring muted sound")
			continue
		}
		sm.muted[k] = true
	}
	return sm
}

// Initialize decodes the sound files and opens the speaker
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if !sm.cfg.Enabled {
		return ErrDisabled
	}

	sm.loadAssets()

	if err := speaker.Init(sm.rate, sm.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// loadAssets decodes every sound file present; missing or broken files
// fall back to synthesis
func (sm *SoundManager) loadAssets() {
	if sm.cfg.AssetsDir == "" {
		return
	}
	for _, k := range Kinds() {
		buf, err := decodeFile(filepath.Join(sm.cfg.AssetsDir, "sounds", k.String()+".mp3"), sm.rate)
		if err != nil {
			if !os.IsNotExist(err) {
				sm.faults.Add(1)
			}
			log.WithError(err).Debugf("sound %s synthesized", k)
			continue
		}
		sm.buffers[k] = buf
	}
}

// decodeFile reads an mp3 fully into memory at the device rate
func decodeFile(path string, rate beep.SampleRate) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	stream, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer stream.Close()

	var s beep.Streamer = stream
	if format.SampleRate != rate {
		s = beep.Resample(resampleQuality, format.SampleRate, rate, s)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2})
	buf.Append(s)
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return buf, nil
}

// source returns a fresh stream for k at unity gain
func (sm *SoundManager) source(k Kind) beep.Streamer {
	if k < 0 || k >= kindCount {
		return nil
	}
	if buf := sm.buffers[k]; buf != nil {
		return buf.Streamer(0, buf.Len())
	}
	return synthesize(k, sm.rate)
}

// Play starts k from the beginning; overlapping plays mix
func (sm *SoundManager) Play(k Kind) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || (k >= 0 && k < kindCount && sm.muted[k]) {
		return
	}
	s := sm.source(k)
	if s == nil {
		sm.faults.Add(1)
		log.Warnf("failed to play %s sound: %v", k, ErrUnknownKind)
		return
	}

	speaker.Lock()
	sm.mixer.Add(newVolume(s, sm.cfg.Volume))
	speaker.Unlock()
	sm.played.Add(1)
}

// Cleanup silences everything; Play is a no-op afterwards
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}
