package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lfsrgen/lfsr"
)

func testViper(settings map[string]interface{}) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range settings {
		v.Set(k, val)
	}
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	c, err := loadConfig(testViper(nil))
	require.NoError(t, err)

	assert.Empty(t, c.Paths)
	assert.Equal(t, 16, c.PrintCount)
	assert.Equal(t, uint(32), c.Generator.Width)
	assert.Equal(t, uint64(1), c.Generator.Seed)
	assert.Equal(t, lfsr.Positions{32, 22, 2, 1}, c.Generator.Taps)
	assert.False(t, c.Generator.StopSet)
	assert.Equal(t, int64(1<<20), c.IoSize)
	assert.Equal(t, "raw", c.Format)
}

func TestLoadConfig_Generator(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]interface{}
		wantErr  error
	}{
		{"omitted taps", map[string]interface{}{"lfsr.taps": ""}, lfsr.ErrUnsafeDefaultsNotEnabled},
		{"omitted taps, opted in", map[string]interface{}{"lfsr.taps": "", "lfsr.allow_unsafe_defaults": true}, nil},
		{"published taps", map[string]interface{}{"lfsr.width": 4, "lfsr.taps": "0xc"}, lfsr.ErrUnsafeTapsRejected},
		{"width 8, no taps", map[string]interface{}{"lfsr.width": 8}, lfsr.ErrUnsafeDefaultsNotEnabled},
		{"width 8, no taps, opted in", map[string]interface{}{"lfsr.width": 8, "lfsr.allow_unsafe_defaults": true}, nil},
		{"width 1, no taps, opted in", map[string]interface{}{"lfsr.width": 1, "lfsr.allow_unsafe_defaults": true}, lfsr.ErrNoDefaultTaps},
		{"taps too wide", map[string]interface{}{"lfsr.width": 8, "lfsr.taps": "32,22,2,1"}, lfsr.ErrInvalidTaps},
		{"bad taps", map[string]interface{}{"lfsr.taps": "x,y"}, lfsr.ErrInvalidTaps},
		{"zero seed", map[string]interface{}{"lfsr.seed": "0"}, lfsr.ErrInvalidSeed},
		{"width 64", map[string]interface{}{"lfsr.width": 64, "lfsr.taps": "64,1"}, lfsr.ErrInvalidWidth},
		{"stop too big", map[string]interface{}{"lfsr.width": 4, "lfsr.taps": "4,1", "lfsr.stop_after": "0x10"}, lfsr.ErrInvalidStopValue},
		{"stop ok", map[string]interface{}{"lfsr.width": 4, "lfsr.taps": "4,1", "lfsr.stop_after": "0xf"}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadConfig(testViper(tc.settings))
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestLoadConfig_Output(t *testing.T) {
	paths := []string{"/tmp/a"}

	_, err := loadConfig(testViper(map[string]interface{}{"output.paths": paths}))
	require.NoError(t, err)

	_, err = loadConfig(testViper(map[string]interface{}{"output.paths": paths, "output.format": "WAV"}))
	require.NoError(t, err)

	for _, bad := range []map[string]interface{}{
		{"output.format": "mp3"},
		{"compressibility": 101},
		{"generators": 0},
		{"output.runners_per_path": 0},
		{"iosize": "0"},
		{"reporter.interval": "0s"},
		{"output.format": "wav", "wav.sample_rate": 0},
		{"output.open_flags": []string{"o_bogus"}},
	} {
		bad["output.paths"] = paths
		_, err = loadConfig(testViper(bad))
		assert.Error(t, err, "%v", bad)
	}

	_, err = loadConfig(testViper(map[string]interface{}{"lfsr.seed": "nope"}))
	assert.Error(t, err)

	_, err = loadConfig(testViper(map[string]interface{}{"print.count": -1}))
	assert.Error(t, err)
}

func TestNewViper_FileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lfsrgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
lfsr:
  width: 8
  seed: "3"
  taps: "4,1"
  stop_after: "5"
print:
  count: 3
`), 0644))

	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--config", path, "--width", "4"}))

	v, err := newViper(fs)
	require.NoError(t, err)

	c, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, uint(4), c.Generator.Width, "flag beats file")
	assert.Equal(t, uint64(3), c.Generator.Seed)
	assert.Equal(t, lfsr.Positions{4, 1}, c.Generator.Taps)
	assert.True(t, c.Generator.StopSet)
	assert.Equal(t, uint64(5), c.Generator.StopAfter)
	assert.Equal(t, 3, c.PrintCount)
}

func TestNewViper_UnsafeDefaultsFlag(t *testing.T) {
	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--width", "8", "--allow-unsafe-defaults"}))

	v, err := newViper(fs)
	require.NoError(t, err)

	c, err := loadConfig(v)
	require.NoError(t, err)
	assert.Nil(t, c.Generator.Taps)

	r, err := c.Generator.NewRegister(0)
	require.NoError(t, err)
	assert.Equal(t, lfsr.Mask(0xb8), r.Taps(), "published 8,6,5,4")

	fs = newFlagSet()
	require.NoError(t, fs.Parse([]string{"--width", "8"}))
	v, err = newViper(fs)
	require.NoError(t, err)

	_, err = loadConfig(v)
	require.ErrorIs(t, err, lfsr.ErrUnsafeDefaultsNotEnabled)
	assert.NotContains(t, err.Error(), "lfsr: lfsr:")
}

func TestNewViper_MissingFile(t *testing.T) {
	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}))

	_, err := newViper(fs)
	assert.Error(t, err)
}

func TestGeneratorConfig_SeedFor(t *testing.T) {
	g := &GeneratorConfig{Width: 4, Seed: 15, Taps: lfsr.Positions{4, 1}}

	assert.Equal(t, uint64(15), g.seedFor(0))
	assert.Equal(t, uint64(1), g.seedFor(1))
	assert.Equal(t, uint64(2), g.seedFor(2))
	assert.Equal(t, uint64(15), g.seedFor(15))

	for n := 0; n < 40; n++ {
		r, err := g.NewRegister(n)
		require.NoError(t, err)
		require.NotNil(t, r)
	}

	// invalid seeds pass through to the validator
	bad := &GeneratorConfig{Width: 4, Seed: 16, Taps: lfsr.Positions{4, 1}}
	assert.Equal(t, uint64(16), bad.seedFor(3))
	_, err := bad.NewRegister(3)
	assert.ErrorIs(t, err, lfsr.ErrInvalidSeed)
}
