package main

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"lfsrgen/lfsr"
)

// GeneratorConfig describes the registers handed to each consumer.
type GeneratorConfig struct {
	Width               uint
	Seed                uint64
	Taps                lfsr.Taps
	AllowUnsafeDefaults bool
	StopAfter           uint64
	StopSet             bool
}

// NewRegister builds the register for consumer n. Consumer 0 starts at the
// configured seed; the others start n steps further along the value range
// so that no two consumers share a starting point.
func (g *GeneratorConfig) NewRegister(n int) (*lfsr.Register, error) {
	r, err := lfsr.Config{
		Width:               g.Width,
		Seed:                g.seedFor(n),
		Taps:                g.Taps,
		AllowUnsafeDefaults: g.AllowUnsafeDefaults,
	}.Build()

	if err != nil {
		return nil, err
	}

	if g.StopSet {
		if err = r.StopAfterValue(g.StopAfter); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (g *GeneratorConfig) seedFor(n int) uint64 {
	if n <= 0 || g.Width == 0 || g.Width > lfsr.MaxWidth {
		return g.Seed
	}

	period := lfsr.Period(g.Width)
	if g.Seed == 0 || g.Seed > period {
		// leave it for the validator to reject
		return g.Seed
	}

	return (g.Seed-1+uint64(n)%period)%period + 1
}

type Config struct {
	Generator GeneratorConfig

	PrintCount int
	PrintPeek  bool

	SizeSpec        string
	IoSize          int64
	Compressibility int
	Generators      int

	Paths          []string
	Format         string
	RunnersPerPath int
	Subdirs        int
	Sync           bool
	OpenFlags      int
	SampleRate     int

	Reporter ReporterConfig

	SetupCmd    string
	TeardownCmd string

	StatsView     bool
	StatsViewAddr string

	LogLevel       string
	LogDevelopment bool
}

// autoTaps selects chooserTaps for 32-bit registers and omits the taps for
// every other width, leaving them to the published table.
const autoTaps = "auto"

func setDefaults(v *viper.Viper) {
	v.SetDefault("lfsr.width", 32)
	v.SetDefault("lfsr.seed", "1")
	v.SetDefault("lfsr.taps", autoTaps)
	v.SetDefault("lfsr.allow_unsafe_defaults", false)
	v.SetDefault("lfsr.stop_after", "")
	v.SetDefault("print.count", 16)
	v.SetDefault("print.peek", false)
	v.SetDefault("size", "4MB/100/dat")
	v.SetDefault("iosize", "1MB")
	v.SetDefault("compressibility", 0)
	v.SetDefault("generators", max(1, runtime.NumCPU()/4))
	v.SetDefault("output.format", "raw")
	v.SetDefault("output.runners_per_path", 1)
	v.SetDefault("output.subdirs", 0)
	v.SetDefault("output.sync", false)
	v.SetDefault("wav.sample_rate", 44100)
	v.SetDefault("reporter.interval", "1s")
	v.SetDefault("statsview.addr", "localhost:18066")
	v.SetDefault("log.level", "info")
}

// newFlagSet declares the command line. Flags override the config file.
func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("lfsrgen", pflag.ContinueOnError)
	fs.String("config", "", "config file (default ./lfsrgen.{json,yaml,toml})")
	fs.Uint("width", 32, "register width in bits")
	fs.String("seed", "1", "nonzero seed, decimal or 0x hex")
	fs.String("taps", autoTaps, "tap positions (4,3) or mask (0xc); empty for the published table")
	fs.Bool("allow-unsafe-defaults", false, "allow the published tap table")
	fs.String("stop-after", "", "halt after emitting this value")
	fs.Int("count", 16, "values to print, 0 for a full run")
	fs.Bool("peek", false, "print the lookahead value too")
	fs.StringSlice("output", nil, "write pattern objects under these paths")
	fs.String("format", "raw", "object format: raw or wav")
	fs.String("log-level", "info", "log level")
	return fs
}

var flagKeys = map[string]string{
	"width":                 "lfsr.width",
	"seed":                  "lfsr.seed",
	"taps":                  "lfsr.taps",
	"allow-unsafe-defaults": "lfsr.allow_unsafe_defaults",
	"stop-after":            "lfsr.stop_after",
	"count":                 "print.count",
	"peek":                  "print.peek",
	"output":                "output.paths",
	"format":                "output.format",
	"log-level":             "log.level",
}

// newViper returns a viper instance with defaults, environment and flags
// bound, and the config file read if there is one.
func newViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LFSRGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("cannot bind flag '%s': %s", flag, err)
		}
	}

	if path, _ := fs.GetString("config"); len(path) > 0 {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("lfsrgen")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %s", err)
		}
	}

	return v, nil
}

func loadConfig(v *viper.Viper) (*Config, error) {
	var err error

	c := &Config{
		PrintCount:      v.GetInt("print.count"),
		PrintPeek:       v.GetBool("print.peek"),
		SizeSpec:        v.GetString("size"),
		IoSize:          int64(v.GetSizeInBytes("iosize")),
		Compressibility: v.GetInt("compressibility"),
		Generators:      v.GetInt("generators"),
		Paths:           v.GetStringSlice("output.paths"),
		Format:          strings.ToLower(v.GetString("output.format")),
		RunnersPerPath:  v.GetInt("output.runners_per_path"),
		Subdirs:         v.GetInt("output.subdirs"),
		Sync:            v.GetBool("output.sync"),
		SampleRate:      v.GetInt("wav.sample_rate"),
		Reporter: ReporterConfig{
			Interval:         v.GetDuration("reporter.interval"),
			LatencyEnabled:   v.GetBool("reporter.loglatency"),
			BandwidthEnabled: v.GetBool("reporter.logbandwidth"),
		},
		SetupCmd:       v.GetString("setup_cmd"),
		TeardownCmd:    v.GetString("teardown_cmd"),
		StatsView:      v.GetBool("statsview.enabled"),
		StatsViewAddr:  v.GetString("statsview.addr"),
		LogLevel:       v.GetString("log.level"),
		LogDevelopment: v.GetBool("log.development"),
	}

	g := &c.Generator
	g.Width = v.GetUint("lfsr.width")
	g.AllowUnsafeDefaults = v.GetBool("lfsr.allow_unsafe_defaults")

	if g.Seed, err = parseUint(v.GetString("lfsr.seed")); err != nil {
		return nil, fmt.Errorf("lfsr.seed: %s", err)
	}

	if taps := v.GetString("lfsr.taps"); strings.EqualFold(strings.TrimSpace(taps), autoTaps) {
		if g.Width == 32 {
			g.Taps = chooserTaps
		}
	} else if g.Taps, err = lfsr.ParseTaps(taps); err != nil {
		return nil, fmt.Errorf("lfsr.taps: %w", err)
	}

	if stop := strings.TrimSpace(v.GetString("lfsr.stop_after")); len(stop) > 0 {
		if g.StopAfter, err = parseUint(stop); err != nil {
			return nil, fmt.Errorf("lfsr.stop_after: %s", err)
		}
		g.StopSet = true
	}

	// catch register errors before anything starts
	if _, err = g.NewRegister(0); err != nil {
		return nil, err
	}

	if c.PrintCount < 0 {
		return nil, fmt.Errorf("print.count must not be negative")
	}

	if len(c.Paths) == 0 {
		return c, nil
	}

	if c.IoSize <= 0 {
		return nil, fmt.Errorf("no io size specified; set 'iosize'")
	}

	if c.Compressibility < 0 || c.Compressibility > 100 {
		return nil, fmt.Errorf("compressibility must be 0 to 100")
	}

	if c.Generators < 1 {
		return nil, fmt.Errorf("generators must be at least 1")
	}

	if c.OpenFlags, err = parseOpenFlags(v.GetStringSlice("output.open_flags")); err != nil {
		return nil, fmt.Errorf("output.open_flags: %s", err)
	}

	if c.RunnersPerPath < 1 {
		return nil, fmt.Errorf("output.runners_per_path must be at least 1")
	}

	switch c.Format {
	case "raw":
	case "wav":
		if c.SampleRate <= 0 {
			return nil, fmt.Errorf("wav.sample_rate must be above 0")
		}
	default:
		return nil, fmt.Errorf("unknown output.format '%s'; use raw or wav", c.Format)
	}

	if c.Reporter.Interval <= 0 {
		return nil, fmt.Errorf("no reporter interval specified; set 'reporter.interval'")
	}

	return c, nil
}
