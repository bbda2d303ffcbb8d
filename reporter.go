package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

type ReporterConfig struct {
	LatencyEnabled   bool
	BandwidthEnabled bool
	Interval         time.Duration
	RunId            string
	Dir              string // where CSV logs go; defaults to the working directory
}

type Sample struct {
	Start  time.Time
	Finish time.Time
	Size   int64
}

type Reporter struct {
	*zap.SugaredLogger
	config     *ReporterConfig
	stop       func()
	samples    chan *Sample
	samplePool sync.Pool
	bwlog      *os.File
	latlog     *os.File
	latency    *Histogram
	totalBytes int64
	totalOps   int64
	elapsed    time.Duration
}

func NewReporter(config *ReporterConfig) (r *Reporter, err error) {
	if config.Interval <= 0 {
		return nil, fmt.Errorf("reporter interval must be above 0")
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	r = &Reporter{
		SugaredLogger: Logger().With(zap.String("run", config.RunId)),
		config:        config,
		stop: func() {
			cancel()
			wg.Wait()
		},
		samples: make(chan *Sample, 1000),
		samplePool: sync.Pool{
			New: func() interface{} {
				return &Sample{}
			},
		},
		latency: NewHistogram(),
	}

	if err = r.openFiles(); err != nil {
		cancel()
		return nil, err
	}

	wg.Add(1)
	go func() {
		r.Run(ctx)
		wg.Done()
	}()

	return
}

func (r *Reporter) logPath(kind string) string {
	return filepath.Join(r.config.Dir, fmt.Sprintf("%s.%s.csv", kind, r.config.RunId))
}

func (r *Reporter) openFiles() (err error) {
	defer func() {
		// Close both files on error
		if err != nil {
			if r.bwlog != nil {
				_ = r.bwlog.Close()
			}
			if r.latlog != nil {
				_ = r.latlog.Close()
			}
		}
	}()

	if r.config.BandwidthEnabled {
		r.bwlog, err = os.OpenFile(r.logPath("bandwidth"), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)

		if err != nil {
			return fmt.Errorf("failed creating bandwidth log: %s", err)
		}

		if _, err = fmt.Fprintf(r.bwlog, "# %s, %s\n", "Time(sec)", "Rate(bytes/sec)"); err != nil {
			return fmt.Errorf("failed writing to bandwidth log: %s", err)
		}
	}

	if r.config.LatencyEnabled {
		r.latlog, err = os.OpenFile(r.logPath("latency"), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)

		if err != nil {
			return fmt.Errorf("failed creating latency log: %s", err)
		}

		if _, err = fmt.Fprintf(r.latlog, "# %s, %s, %s\n", "Time(sec)", "Latency(sec)", "Size(bytes)"); err != nil {
			return fmt.Errorf("failed writing to latency log: %s", err)
		}
	}

	return nil
}

// Stop drains the reporter and logs run totals. Runners must be stopped
// first.
func (r *Reporter) Stop() {
	r.stop()

	rate := int64(0)
	if secs := r.elapsed.Seconds(); secs > 0 {
		rate = int64(float64(r.totalBytes) / secs)
	}

	r.Infof("stopped: %d writes, %s in %s (%s/sec)",
		r.totalOps, formatSize(r.totalBytes), r.elapsed.Round(time.Millisecond), formatSize(rate))
}

// Totals returns the byte and write counts seen so far. Only meaningful
// after Stop.
func (r *Reporter) Totals() (bytes int64, ops int64) {
	return r.totalBytes, r.totalOps
}

func (r *Reporter) GetSample() *Sample {
	s := r.samplePool.Get().(*Sample)
	s.Start = time.Now()
	return s
}

func (r *Reporter) CaptureSample(s *Sample, size int64) {
	s.Finish = time.Now()
	s.Size = size
	r.samples <- s
}

func (r *Reporter) record(sample *Sample, startTime time.Time) int64 {
	r.totalBytes += sample.Size
	r.totalOps++
	r.latency.Add(sample.Finish.Sub(sample.Start))

	if r.latlog != nil {
		fmt.Fprintf(r.latlog, "%.3f, %.6f, %d\n",
			sample.Finish.Sub(startTime).Seconds(),
			sample.Finish.Sub(sample.Start).Seconds(),
			sample.Size)
	}

	size := sample.Size
	r.samplePool.Put(sample)
	return size
}

func (r *Reporter) Run(ctx context.Context) {
	startTime := time.Now()

	defer func() {
		r.elapsed = time.Since(startTime)

		if r.bwlog != nil {
			r.bwlog.Close()
			r.bwlog = nil
		}

		if r.latlog != nil {
			r.latlog.Close()
			r.latlog = nil
		}
	}()

	r.Infof("running")
	intervalBytes := int64(0)
	lastReportTime := startTime

	t := time.NewTicker(r.config.Interval)
	t2 := time.NewTicker(time.Second * 10)
	defer t.Stop()
	defer t2.Stop()

	for {
		select {
		case <-ctx.Done():
			// pick up anything captured before the runners stopped
			for {
				select {
				case sample := <-r.samples:
					r.record(sample, startTime)
				default:
					return
				}
			}

		case sample := <-r.samples:
			intervalBytes += r.record(sample, startTime)

		case tick := <-t.C:
			interval := tick.Sub(lastReportTime).Seconds()

			// Convert from accumulated bytes in the interval to the
			// rate (bytes/sec) for that interval
			rate := int64(float64(intervalBytes) / interval)
			r.Infof("- %s/sec", formatSize(rate))

			if r.bwlog != nil {
				fmt.Fprintf(r.bwlog, "%.3f, %d\n", tick.Sub(startTime).Seconds(), rate)
			}

			lastReportTime = tick
			intervalBytes = int64(0)

		case <-t2.C:
			r.Infof("write latency: %s", r.latency.Headers())
			r.Infof("write latency: %s", r.latency.String())
			r.latency.Reset()
		}
	}
}
