package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth  = 16
	wavPCMFormat = 1
)

// WavObjectStore writes each object as a mono 16-bit PCM WAV file. LFSR
// output makes white noise, which is handy for exercising audio paths.
type WavObjectStore struct {
	files      *FileObjectStore
	sampleRate int
}

func NewWavObjectStore(root string, subdirCount int, sampleRate int) (ObjectStore, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be above 0")
	}

	subdirs, err := makeSubdirs(root, subdirCount)

	if err != nil {
		return nil, err
	}

	return &WavObjectStore{
		files:      &FileObjectStore{root: root, subdirs: subdirs},
		sampleRate: sampleRate,
	}, nil
}

func (s *WavObjectStore) GetWriter(name string) (ObjectWriter, error) {
	name = strings.TrimSuffix(name, filepath.Ext(name)) + ".wav"

	f, err := os.Create(s.files.path(name))

	if err != nil {
		return nil, err
	}

	return &wavWriter{
		f:   f,
		enc: wav.NewEncoder(f, s.sampleRate, wavBitDepth, 1, wavPCMFormat),
		format: &audio.Format{
			NumChannels: 1,
			SampleRate:  s.sampleRate,
		},
	}, nil
}

// wavWriter turns each little-endian byte pair into one signed sample. An
// odd byte is held until the next Write; one left at Close is dropped.
type wavWriter struct {
	f      *os.File
	enc    *wav.Encoder
	format *audio.Format
	carry  []byte
}

func (w *wavWriter) Write(p []byte) (int, error) {
	data := p
	if len(w.carry) > 0 {
		data = append(w.carry, p...)
		w.carry = nil
	}

	samples := make([]int, len(data)/2)
	for i := range samples {
		samples[i] = int(int16(uint16(data[2*i]) | uint16(data[2*i+1])<<8))
	}

	if len(data)%2 == 1 {
		w.carry = []byte{data[len(data)-1]}
	}

	if len(samples) == 0 {
		return len(p), nil
	}

	buf := &audio.IntBuffer{
		Format:         w.format,
		Data:           samples,
		SourceBitDepth: wavBitDepth,
	}

	if err := w.enc.Write(buf); err != nil {
		return 0, fmt.Errorf("wav encode: %s", err)
	}

	return len(p), nil
}

// Sync flushes written samples to disk. The header is only final after Close.
func (w *wavWriter) Sync() error {
	return w.f.Sync()
}

func (w *wavWriter) Close() (e error) {
	defer func() {
		if e == nil {
			e = w.f.Close()
		} else {
			_ = w.f.Close() // attempt to close, but don't nuke existing error
		}
	}()

	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("wav close: %s", err)
	}

	return nil
}
