package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Runner is one unit of work started by a RunnerList. Run returns when the
// context is cancelled or the runner has nothing left to do.
type Runner interface {
	Run(ctx context.Context)
}

// ObjectRunner writes vendor objects to a store.
type ObjectRunner struct {
	*zap.SugaredLogger
	objectStore  ObjectStore
	objectVendor *ObjectVendor
	reporter     *Reporter
	sync         bool
	iosize       int64
	errchan      chan error
}

func NewObjectRunner(store ObjectStore, vendor *ObjectVendor, reporter *Reporter, sync bool, iosize int64, errchan chan error, n int) (*ObjectRunner, error) {
	if iosize <= 0 {
		return nil, fmt.Errorf("io size must be above 0")
	}

	r := &ObjectRunner{
		SugaredLogger: Logger().With(zap.Int("id", n)),
		objectStore:   store,
		objectVendor:  vendor,
		reporter:      reporter,
		sync:          sync,
		iosize:        iosize,
		errchan:       errchan,
	}

	r.Infof("creating runner")

	return r, nil
}

func (r *ObjectRunner) Run(ctx context.Context) {
	r.Infof("running")

	for ctx.Err() == nil {
		obj, ok := r.objectVendor.GetObject()

		if !ok {
			r.Infof("no more objects")
			return
		}

		if err := r.WriteObject(ctx, obj); err != nil {
			select {
			case r.errchan <- err:
				// error sent
			default:
				// error chan was full, discard
			}
		}
	}
}

func (r *ObjectRunner) WriteObject(ctx context.Context, obj *Object) (e error) {
	defer r.objectVendor.ReturnObject(obj)

	wr, e := r.objectStore.GetWriter(obj.Name())

	if e != nil {
		return fmt.Errorf("cannot get object writer: %s", e)
	}

	defer func() {
		if e == nil {
			e = wr.Close()
		} else {
			_ = wr.Close() // attempt to close, but don't nuke existing error
		}
	}()

	offset := 0
	remaining := len(obj.Data)

	for remaining > 0 && ctx.Err() == nil {
		var bw int
		iosize := int(r.iosize)

		if iosize > remaining {
			iosize = remaining
		}

		sample := r.reporter.GetSample()
		bw, e = wr.Write(obj.Data[offset : offset+iosize])
		r.reporter.CaptureSample(sample, int64(bw))

		remaining -= bw
		offset += bw

		if e != nil {
			r.Errorf("write: %s", e)
			return
		} else if bw < iosize {
			e = fmt.Errorf("short write: expected %d, got %d", iosize, bw)
			return
		}
	}

	if r.sync {
		e = wr.Sync()
	}

	return
}
