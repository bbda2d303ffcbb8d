package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type Object struct {
	Id        ulid.ULID
	Extension string // file extension
	dataBuf   []byte // full-size buffer
	Data      []byte // slice of dataBuf to use (may be smaller)
}

func (o *Object) Name() string {
	return fmt.Sprintf("%s.%s", o.Id.String(), o.Extension)
}

type ObjectVendorConfig struct {
	Compressibility int
	Generators      int
	Sizes           []int
	MaxSize         int
	Extensions      map[int]string // map size -> file extension for size
}

// ObjectVendor fills objects with LFSR patterns. Each generator goroutine
// owns one register; once every register has halted the vendor runs dry.
type ObjectVendor struct {
	*zap.SugaredLogger
	config  *ObjectVendorConfig
	pool    sync.Pool
	objects chan *Object
	stop    func()
}

const maxObjects = 100

// Size spec follows fio 'bsplit' format:
// "blocksize/percentage:blocksize/percentage:..." For example
// "4K/10:8K/90" means 4K blocks 10 percent of the time and 8K blocks
// 90 percent of the time. The percentages must sum to 100.
//
// Compressibility should be 0 for incompressible, 100 for totally
// compressible data, or any percentage between.
func NewObjectVendor(sizespec string, compressibility, generators int, gen *GeneratorConfig) (*ObjectVendor, error) {
	config, err := parseSizeSpec(sizespec)

	if err != nil {
		return nil, err
	}

	config.Compressibility = compressibility
	config.Generators = max(1, generators)

	// registers are built up front so a bad config fails here
	seqs := make([]*ByteSequence, config.Generators)
	for i := range seqs {
		reg, err := gen.NewRegister(i)

		if err != nil {
			return nil, fmt.Errorf("cannot create register %d: %w", i, err)
		}

		seqs[i] = NewByteSequence(reg, 0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	b := &ObjectVendor{
		SugaredLogger: Logger(),
		config:        config,
		pool: sync.Pool{
			New: func() interface{} {
				return &Object{
					dataBuf: make([]byte, config.MaxSize),
				}
			},
		},
		objects: make(chan *Object, maxObjects),
		stop: func() {
			cancel()
			wg.Wait()
		},
	}

	b.Infof("object size spec: %s", sizespec)
	b.Infof("compressibility: %d", compressibility)

	for i, seq := range seqs {
		wg.Add(1)
		go func(n int, seq *ByteSequence) {
			defer wg.Done()
			b.run(ctx, n, seq)
		}(i, seq)
	}

	go func() {
		wg.Wait()
		close(b.objects)
	}()

	return b, nil
}

func (b *ObjectVendor) Stop() {
	b.stop()
}

// GetObject returns the next object, or false once every generator has
// halted or the vendor was stopped.
func (b *ObjectVendor) GetObject() (*Object, bool) {
	obj, ok := <-b.objects
	return obj, ok
}

func (b *ObjectVendor) ReturnObject(obj *Object) {
	b.pool.Put(obj)
}

func (b *ObjectVendor) run(ctx context.Context, n int, seq *ByteSequence) {
	log := b.With(zap.Int("generator", n))
	log.Infof("starting object vendor")
	chooser := NewNumberSequence(uint32(n) + 1)

	for {
		obj := b.makeObject(seq, chooser)

		if obj == nil {
			log.Infof("register halted")
			return
		}

		select {
		case <-ctx.Done():
			return

		case b.objects <- obj:
		}
	}
}

// makeObject returns nil once the sequence has nothing left to give.
func (b *ObjectVendor) makeObject(seq *ByteSequence, chooser *NumberSequence) *Object {
	obj := b.pool.Get().(*Object)
	obj.Id = ulid.Make() // Need to assign new one every time to prevent recycling

	// slice object down to size
	size := b.config.Sizes[chooser.Next()%100]
	obj.Extension = b.config.Extensions[size]

	n := seq.PatternFill(obj.dataBuf[:size], b.config.Compressibility, chooser)
	if n == 0 {
		b.pool.Put(obj)
		return nil
	}

	obj.Data = obj.dataBuf[:n]
	return obj
}

func parseSizeSpec(sizespec string) (*ObjectVendorConfig, error) {
	config := &ObjectVendorConfig{
		Sizes:      make([]int, 100),
		Extensions: make(map[int]string),
		MaxSize:    0,
	}

	totalPercent := 0
	splits := strings.Split(sizespec, ":")

	for _, s := range splits {
		sizeStr := ""
		percentStr := "100"
		extension := "dat"

		strs := strings.Split(s, "/")
		switch {
		case len(strs) == 1:
			sizeStr = strs[0]
		case len(strs) == 2:
			sizeStr = strs[0]
			percentStr = strs[1]
		case len(strs) == 3:
			sizeStr = strs[0]
			percentStr = strs[1]
			extension = strs[2]
		default:
			return nil, fmt.Errorf("malformed split '%s'; should be blocksize/percent/extension", s)
		}

		size, err := parseSizeInBytes(sizeStr)

		if err != nil {
			return nil, fmt.Errorf("cannot parse object size spec: %s", err)
		} else if size <= 0 {
			return nil, fmt.Errorf("object size '%s' must be above 0", sizeStr)
		}

		percent, err := strconv.ParseInt(percentStr, 10, 64)

		if err != nil {
			return nil, fmt.Errorf("cannot parse '%s' as int64", percentStr)
		} else if percent <= 0 || totalPercent+int(percent) > 100 {
			return nil, fmt.Errorf("percents must sum to 100")
		}

		if len(extension) == 0 {
			return nil, fmt.Errorf("empty extension in split '%s'", s)
		}

		for i := totalPercent; i < totalPercent+int(percent); i++ {
			config.Sizes[i] = int(size)
		}

		if int(size) > config.MaxSize {
			config.MaxSize = int(size)
		}

		config.Extensions[int(size)] = extension

		totalPercent += int(percent)
	}

	if totalPercent != 100 {
		return nil, fmt.Errorf("percents must sum to 100")
	}

	return config, nil
}
