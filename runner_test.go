package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lfsrgen/lfsr"
)

func newTestReporter(t *testing.T) *Reporter {
	t.Helper()
	r, err := NewReporter(&ReporterConfig{
		Interval:         10 * time.Millisecond,
		LatencyEnabled:   true,
		BandwidthEnabled: true,
		RunId:            "test",
		Dir:              t.TempDir(),
	})
	require.NoError(t, err)
	return r
}

func waitDone(t *testing.T, rl *RunnerList) {
	t.Helper()
	select {
	case <-rl.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("runners did not finish")
	}
}

func TestObjectRunner_WritesWholeCycle(t *testing.T) {
	root := t.TempDir()
	errchan := make(chan error, 10)

	vendor, err := NewObjectVendor("64B/100/bin", 0, 1, oneCycle())
	require.NoError(t, err)
	defer vendor.Stop()

	reporter := newTestReporter(t)

	store, err := NewFileObjectStore(root, 0, 0)
	require.NoError(t, err)

	runner, err := NewObjectRunner(store, vendor, reporter, true, 16, errchan, 0)
	require.NoError(t, err)

	rl := NewRunnerList("", "")
	rl.AddRunner(runner)
	require.NoError(t, rl.Start())
	waitDone(t, rl)
	rl.Stop()
	reporter.Stop()

	require.Empty(t, errchan)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	total := int64(0)
	for _, e := range entries {
		assert.Equal(t, ".bin", filepath.Ext(e.Name()))
		info, err := e.Info()
		require.NoError(t, err)
		total += info.Size()
	}
	assert.Equal(t, int64(lfsr.Period(8)), total)

	bytes, ops := reporter.Totals()
	assert.Equal(t, int64(lfsr.Period(8)), bytes)
	assert.Equal(t, int64(16), ops, "three 64 byte objects and one of 63, in 16 byte writes")

	assert.FileExists(t, filepath.Join(reporter.config.Dir, "latency.test.csv"))
	assert.FileExists(t, filepath.Join(reporter.config.Dir, "bandwidth.test.csv"))
}

func TestObjectRunner_Wav(t *testing.T) {
	root := t.TempDir()

	vendor, err := NewObjectVendor("64B/100/dat", 0, 1, oneCycle())
	require.NoError(t, err)
	defer vendor.Stop()

	reporter := newTestReporter(t)

	store, err := NewWavObjectStore(root, 0, 8000)
	require.NoError(t, err)

	runner, err := NewObjectRunner(store, vendor, reporter, false, 64, make(chan error, 10), 0)
	require.NoError(t, err)

	runner.Run(context.Background())
	reporter.Stop()

	matches, err := filepath.Glob(filepath.Join(root, "*.wav"))
	require.NoError(t, err)
	assert.Len(t, matches, 4)
}

type blockingRunner struct{}

func (blockingRunner) Run(ctx context.Context) {
	<-ctx.Done()
}

func TestRunnerList_StopAndCommands(t *testing.T) {
	dir := t.TempDir()
	setup := filepath.Join(dir, "setup")
	teardown := filepath.Join(dir, "teardown")

	rl := NewRunnerList("touch "+setup, "touch "+teardown)
	rl.AddRunner(blockingRunner{})
	rl.AddRunner(blockingRunner{})
	require.NoError(t, rl.Start())
	assert.FileExists(t, setup)

	select {
	case <-rl.Done():
		t.Fatal("runners finished before stop")
	case <-time.After(20 * time.Millisecond):
	}

	rl.Stop()
	waitDone(t, rl)
	assert.FileExists(t, teardown)
}

func TestRunnerList_SetupFails(t *testing.T) {
	rl := NewRunnerList("exit 1", "")
	rl.AddRunner(blockingRunner{})
	assert.Error(t, rl.Start())
}

func TestNewObjectRunner_BadIoSize(t *testing.T) {
	_, err := NewObjectRunner(nil, nil, nil, false, 0, nil, 0)
	assert.Error(t, err)
}
