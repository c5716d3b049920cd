package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveTriangle
	WaveNoise
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a wave of the given frequency and length
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveTriangle:
			val = 4*math.Abs(o.phase-0.5) - 1
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope shapes s over duration with linear attack and release ramps
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	releaseStart := e.totalSamples - e.releaseSamples
	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if e.releaseSamples > 0 && e.position >= releaseStart {
			vol = math.Max(0, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly; zero or less is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Synthesized fallbacks for missing sound files

const (
	flipDuration  = 90 * time.Millisecond
	flipAttack    = 5 * time.Millisecond
	flipRelease   = 70 * time.Millisecond
	matchDuration = 350 * time.Millisecond
	matchAttack   = 5 * time.Millisecond
	winNote       = 140 * time.Millisecond
	winLastNote   = 450 * time.Millisecond
	winAttack     = 8 * time.Millisecond
	winRelease    = 60 * time.Millisecond
)

// synthFlip is a short filtered-noise swish
func synthFlip(rate beep.SampleRate) beep.Streamer {
	noise := NewOscillator(0, flipDuration, WaveNoise, rate)
	swish := NewEnvelope(noise, flipDuration, flipAttack, flipRelease, rate)
	click := NewEnvelope(NewOscillator(660, flipDuration, WaveTriangle, rate), flipDuration, flipAttack, flipRelease, rate)
	return beep.Mix(newVolume(swish, 0.35), newVolume(click, 0.25))
}

// synthMatch is a two-partial bell
func synthMatch(rate beep.SampleRate) beep.Streamer {
	fund := NewEnvelope(NewOscillator(880, matchDuration, WaveSine, rate), matchDuration, matchAttack, matchDuration-matchAttack, rate)
	over := NewEnvelope(NewOscillator(1760, matchDuration, WaveSine, rate), matchDuration, matchAttack, matchDuration/2, rate)
	return beep.Mix(newVolume(fund, 0.7), newVolume(over, 0.3))
}

// synthWin is a rising major arpeggio, C5 E5 G5 C6
func synthWin(rate beep.SampleRate) beep.Streamer {
	freqs := []float64{523.25, 659.25, 783.99, 1046.50}
	notes := make([]beep.Streamer, len(freqs))
	for i, f := range freqs {
		d := winNote
		if i == len(freqs)-1 {
			d = winLastNote
		}
		notes[i] = NewEnvelope(NewOscillator(f, d, WaveSquare, rate), d, winAttack, winRelease, rate)
	}
	return newVolume(beep.Seq(notes...), 0.4)
}

// synthesize returns the fallback stream for k
func synthesize(k Kind, rate beep.SampleRate) beep.Streamer {
	switch k {
	case Flip:
		return synthFlip(rate)
	case Match:
		return synthMatch(rate)
	case Win:
		return synthWin(rate)
	default:
		return nil
	}
}
