package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"strings"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	toneSampleRate = 22050
	toneBitDepth   = 16
	secondsPerWord = 0.35
	minToneSeconds = 1.0
	maxToneSeconds = 30.0
)

// ToneSynth renders a deterministic placeholder narration: a soft tone whose
// length follows the word count and whose pitch follows the text.
type ToneSynth struct{}

func NewToneSynth() *ToneSynth {
	return &ToneSynth{}
}

func (s *ToneSynth) Synthesize(_ context.Context, req Request) ([]byte, error) {
	req, err := validate(req)
	if err != nil {
		return nil, err
	}
	words := len(strings.Fields(req.Text))
	seconds := math.Min(maxToneSeconds, math.Max(minToneSeconds, float64(words)*secondsPerWord))

	h := fnv.New32a()
	h.Write([]byte(req.Language.Name + "|" + req.Voice + "|" + req.Text))
	freq := 180 + float64(h.Sum32()%240)

	n := int(seconds * toneSampleRate)
	samples := make([]int, n)
	fade := toneSampleRate / 20
	for i := range samples {
		env := 0.3
		if i < fade {
			env *= float64(i) / float64(fade)
		} else if n-i < fade {
			env *= float64(n-i) / float64(fade)
		}
		v := env * math.Sin(2*math.Pi*freq*float64(i)/toneSampleRate)
		samples[i] = int(v * math.MaxInt16)
	}
	return encodeWAV(samples, toneSampleRate)
}

func encodeWAV(samples []int, rate int) ([]byte, error) {
	ws := &writeSeeker{}
	enc := wav.NewEncoder(ws, rate, toneBitDepth, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: rate},
		Data:           samples,
		SourceBitDepth: toneBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("tone: write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("tone: close encoder: %w", err)
	}
	return ws.buf, nil
}

// Duration reads the playback length of WAV data. Undecodable input yields 0.
func Duration(data []byte) time.Duration {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return 0
	}
	d, err := dec.Duration()
	if err != nil {
		return 0
	}
	return d
}

// writeSeeker is an in-memory io.WriteSeeker; the WAV encoder seeks back to
// patch chunk sizes on Close.
type writeSeeker struct {
	buf []byte
	pos int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	if end := w.pos + len(p); end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	copy(w.buf[w.pos:], p)
	w.pos += len(p)
	return len(p), nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = int64(w.pos) + offset
	case io.SeekEnd:
		next = int64(len(w.buf)) + offset
	default:
		return 0, errors.New("tone: invalid whence")
	}
	if next < 0 {
		return 0, errors.New("tone: negative position")
	}
	w.pos = int(next)
	return next, nil
}

var _ Synthesizer = (*ToneSynth)(nil)
