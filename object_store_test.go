package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeObject(t *testing.T, store ObjectStore, name string, chunks ...[]byte) {
	t.Helper()

	w, err := store.GetWriter(name)
	require.NoError(t, err)

	for _, c := range chunks {
		n, err := w.Write(c)
		require.NoError(t, err)
		require.Equal(t, len(c), n)
	}

	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())
}

func TestFileObjectStore(t *testing.T) {
	root := t.TempDir()
	flags, err := parseOpenFlags([]string{"o_sync"})
	require.NoError(t, err)

	store, err := NewFileObjectStore(root, 0, flags)
	require.NoError(t, err)

	writeObject(t, store, "a.dat", []byte("hello "), []byte("world"))

	data, err := os.ReadFile(filepath.Join(root, "a.dat"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestFileObjectStore_Subdirs(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileObjectStore(root, 2, 0)
	require.NoError(t, err)

	for _, name := range []string{"a.dat", "b.dat", "c.dat"} {
		writeObject(t, store, name, []byte(name))
	}

	entries, err := os.ReadDir(filepath.Join(root, "dir-0"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = os.ReadDir(filepath.Join(root, "dir-1"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWavObjectStore(t *testing.T) {
	root := t.TempDir()
	store, err := NewWavObjectStore(root, 0, 8000)
	require.NoError(t, err)

	// samples 1, 32767, -32768 with the byte pairs split across writes; the
	// odd trailing byte is dropped
	writeObject(t, store, "noise.dat",
		[]byte{0x01},
		[]byte{0x00, 0xff, 0x7f, 0x00},
		[]byte{0x80, 0x05})

	f, err := os.Open(filepath.Join(root, "noise.wav"))
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())

	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)

	assert.Equal(t, []int{1, 32767, -32768}, buf.Data)
	assert.EqualValues(t, 8000, dec.SampleRate)
	assert.EqualValues(t, 16, dec.BitDepth)
	assert.EqualValues(t, 1, dec.NumChans)
}

func TestWavObjectStore_BadRate(t *testing.T) {
	_, err := NewWavObjectStore(t.TempDir(), 0, 0)
	assert.Error(t, err)
}
