package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/pflag"
)

func main() {
	fs := newFlagSet()

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	v, err := newViper(fs)

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}

	if err = initLogger(v.GetString("log.level"), v.GetBool("log.development")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}

	logger := Logger()
	config, err := loadConfig(v)

	if err != nil {
		logger.Errorf("bad configuration: %s", err)
		_ = logger.Sync()
		os.Exit(-1)
	}

	code := run(config)
	_ = logger.Sync()
	os.Exit(code)
}

// run starts the configured runners and waits for them to finish, for
// Control-C, or for a runner error. It returns the process exit code.
func run(config *Config) int {
	var err error
	logger := Logger()
	runId := ulid.Make().String()
	errchan := make(chan error, 10)

	if config.StatsView {
		stop := launchStatsView(config.StatsViewAddr)
		defer stop()
	}

	runners := NewRunnerList(config.SetupCmd, config.TeardownCmd)

	var vendor *ObjectVendor
	var reporter *Reporter

	if len(config.Paths) == 0 {
		reg, err := config.Generator.NewRegister(0)

		if err != nil {
			logger.Errorf("cannot create register: %s", err)
			return -1
		}

		runners.AddRunner(NewPrintRunner(reg, os.Stdout, config.PrintCount, config.PrintPeek, errchan))
	} else {
		logger.Infof("run %s", runId)

		vendor, err = NewObjectVendor(config.SizeSpec, config.Compressibility, config.Generators, &config.Generator)

		if err != nil {
			logger.Errorf("cannot create object vendor: %s", err)
			return -1
		}
		defer vendor.Stop()

		config.Reporter.RunId = runId
		reporter, err = NewReporter(&config.Reporter)

		if err != nil {
			logger.Errorf("failed creating reporter: %s", err)
			return -1
		}

		if err = addObjectRunners(runners, config, vendor, reporter, errchan); err != nil {
			logger.Error(err)
			reporter.Stop()
			return -1
		}
	}

	if err = runners.Start(); err != nil {
		logger.Errorf("cannot start runners: %s", err)
		if reporter != nil {
			reporter.Stop()
		}
		return -1
	}

	if len(config.Paths) > 0 {
		logger.Infof("running... press Control-C to stop.")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	exitCode := 0

	select {
	case <-sig:
		logger.Infof("Control-C, stopping.")

	case err = <-errchan:
		logger.Errorf("runner error: %s", err)
		exitCode = -1

	case <-runners.Done():
		logger.Infof("all runners finished")
	}

	if vendor != nil {
		vendor.Stop()
	}

	runners.Stop()

	if reporter != nil {
		reporter.Stop()
	}

	return exitCode
}

func newObjectStore(config *Config, path string) (ObjectStore, error) {
	switch config.Format {
	case "wav":
		return NewWavObjectStore(path, config.Subdirs, config.SampleRate)
	default:
		return NewFileObjectStore(path, config.Subdirs, config.OpenFlags)
	}
}

func addObjectRunners(runners *RunnerList, config *Config, vendor *ObjectVendor, reporter *Reporter, errchan chan error) error {
	logger := Logger()
	n := 0

	for _, path := range config.Paths {
		for i := 0; i < config.RunnersPerPath; i++ {
			store, err := newObjectStore(config, path)

			if err != nil {
				return fmt.Errorf("cannot init store: %s", err)
			}

			r, err := NewObjectRunner(store, vendor, reporter, config.Sync, config.IoSize, errchan, n)

			if err != nil {
				return fmt.Errorf("error initializing runner: %s", err)
			}

			runners.AddRunner(r)
			n++
		}
	}

	logger.Infof("%d %s runners on %d paths", n, config.Format, len(config.Paths))
	return nil
}
