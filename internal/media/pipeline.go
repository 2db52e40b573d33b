package media

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
)

var initOnce sync.Once

// Init initialises GStreamer once per process.
func Init() {
	initOnce.Do(func() { gst.Init(nil) })
}

// pipeline is an appsrc ! ... ! appsink GStreamer graph. Buffers pushed into
// the source come out of the sink through onSample.
type pipeline struct {
	logger *slog.Logger
	pipe   *gst.Pipeline
	src    *app.Source
	sink   *app.Sink

	cancel   context.CancelFunc
	done     chan struct{}
	mu       sync.Mutex
	closed   bool
	lastErr  error
	stopOnce sync.Once
}

func newPipeline(launch string, onSample func(*gst.Sample) gst.FlowReturn, logger *slog.Logger) (*pipeline, error) {
	Init()

	pipe, err := gst.NewPipelineFromString(launch)
	if err != nil {
		return nil, fmt.Errorf("%w: parse launch: %v", ErrPipeline, err)
	}

	srcElem, err := pipe.GetElementByName("src")
	if err != nil {
		return nil, fmt.Errorf("%w: appsrc missing: %v", ErrPipeline, err)
	}
	sinkElem, err := pipe.GetElementByName("sink")
	if err != nil {
		return nil, fmt.Errorf("%w: appsink missing: %v", ErrPipeline, err)
	}

	p := &pipeline{
		logger: logger,
		pipe:   pipe,
		src:    app.SrcFromElement(srcElem),
		sink:   app.SinkFromElement(sinkElem),
		done:   make(chan struct{}),
	}

	p.sink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: func(sink *app.Sink) gst.FlowReturn {
			sample := sink.PullSample()
			if sample == nil {
				return gst.FlowOK
			}
			return onSample(sample)
		},
	})

	if err := pipe.SetState(gst.StatePlaying); err != nil {
		return nil, fmt.Errorf("%w: start: %v", ErrPipeline, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.watch(ctx)

	return p, nil
}

func (p *pipeline) watch(ctx context.Context) {
	defer close(p.done)
	bus := p.pipe.GetPipelineBus()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msg := bus.TimedPop(50 * time.Millisecond)
		if msg == nil {
			continue
		}

		switch msg.Type() {
		case gst.MessageEOS:
			p.logger.Debug("pipeline reached end of stream")
			return
		case gst.MessageError:
			gerr := msg.ParseError()
			p.logger.Error("pipeline error", "error", gerr.Error(), "debug", gerr.DebugString())
			p.mu.Lock()
			p.lastErr = fmt.Errorf("%w: %s", ErrPipeline, gerr.Error())
			p.mu.Unlock()
			return
		}
	}
}

// push feeds one buffer. A negative pts leaves timestamping to the source.
func (p *pipeline) push(data []byte, pts time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPipelineClosed
	}
	if p.lastErr != nil {
		return p.lastErr
	}

	buf := gst.NewBufferFromBytes(data)
	if pts >= 0 {
		buf.SetPresentationTimestamp(pts)
	}
	if ret := p.src.PushBuffer(buf); ret != gst.FlowOK {
		return fmt.Errorf("%w: push returned %v", ErrPipeline, ret)
	}
	return nil
}

func (p *pipeline) stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()

		p.src.EndStream()
		p.cancel()
		<-p.done

		if err := p.pipe.SetState(gst.StateNull); err != nil {
			p.logger.Warn("failed to stop pipeline", "error", err)
		}
	})
}
