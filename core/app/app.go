package app

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/pkg/errors"

	"github.com/ftl/iqscope/core"
	"github.com/ftl/iqscope/core/capture"
	"github.com/ftl/iqscope/core/scope"
	"github.com/ftl/iqscope/core/trace"
)

// recorderQueueSize is the number of captured windows that may wait for the export.
const recorderQueueSize = 64

// New returns a new Controller for the given configuration.
func New(config core.Configuration) *Controller {
	return &Controller{
		config: config,
		width:  640,
		height: 240,
	}
}

// FrameView shows the frames rendered by the controller.
type FrameView interface {
	ShowFrame(core.Frame)
}

// Controller for the application.
type Controller struct {
	config        core.Configuration
	width, height core.Px

	done         chan struct{}
	subProcesses *sync.WaitGroup

	input        core.SamplesInput
	buffer       *trace.Buffer
	acquisition  *acquisition
	recorder     *capture.Recorder
	exportCloser io.Closer
	cancelExport context.CancelFunc
	*mainLoop

	frameView FrameView
}

// SetFrameView sets the view that shows the rendered frames. It must be set before Startup.
func (c *Controller) SetFrameView(frameView FrameView) {
	c.frameView = frameView
}

// SetInitialSize sets the size of the drawing area before Startup.
func (c *Controller) SetInitialSize(width, height core.Px) {
	c.width, c.height = width, height
}

// Startup the application.
func (c *Controller) Startup() error {
	input, err := openInput(c.config)
	if err != nil {
		return err
	}
	return c.StartupWithInput(input)
}

// StartupWithInput starts the application with the given samples input.
func (c *Controller) StartupWithInput(input core.SamplesInput) error {
	var recorder windowRecorder
	if c.config.Export != "" {
		exporter, closer, err := capture.Open(c.config.Export, c.config.ExportTarget)
		if err != nil {
			input.Close()
			return errors.Wrap(err, "cannot open capture export")
		}
		var ctx context.Context
		ctx, c.cancelExport = context.WithCancel(context.Background())
		c.exportCloser = closer
		c.recorder = capture.NewRecorder(exporter, recorderQueueSize)
		c.recorder.Run(ctx)
		recorder = c.recorder
	}

	c.done = make(chan struct{})
	c.subProcesses = new(sync.WaitGroup)
	c.input = input
	c.buffer = trace.New(trace.DefaultTimeout)
	c.acquisition = newAcquisition(input, c.config, c.buffer, recorder)
	view := scope.New(c.width, c.height, c.config.View)
	view.SetTrigger(c.acquisition.detector.Config())
	var frames chan core.Frame
	if c.frameView != nil {
		frames = make(chan core.Frame, 1)
	}
	c.mainLoop = newMainLoop(c.buffer, c.acquisition.detector, view, c.config.FramesPerSecond, frames)

	log.Printf("[INFO] startup: sample rate %d, decimation %d, window size %d", input.SampleRate(), c.acquisition.decimator.Decimation(), c.acquisition.detector.WindowSize())

	c.acquisition.Run(c.done, c.subProcesses)
	c.subProcesses.Add(1)
	go func() {
		defer c.subProcesses.Done()
		c.mainLoop.Run(c.done)
	}()
	if c.frameView != nil {
		c.subProcesses.Add(1)
		go func() {
			defer c.subProcesses.Done()
			c.forwardFrames()
		}()
	}

	return nil
}

func (c *Controller) forwardFrames() {
	defer log.Print("[DEBUG] frame forwarding shutdown")
	for {
		select {
		case frame := <-c.mainLoop.Frames():
			c.frameView.ShowFrame(frame)
		case <-c.done:
			return
		}
	}
}

// Shutdown the application.
func (c *Controller) Shutdown() {
	if c.done == nil {
		return
	}
	close(c.done)
	c.subProcesses.Wait()

	if err := c.input.Close(); err != nil {
		log.Print("[ERROR] cannot close the samples input: ", err)
	}
	if c.recorder != nil {
		c.recorder.Close()
		c.cancelExport()
		if err := c.exportCloser.Close(); err != nil {
			log.Print("[ERROR] cannot close the capture export: ", err)
		}
		log.Printf("[INFO] %d captured windows dropped", c.recorder.Dropped())
	}
	stats := c.buffer.Stats()
	log.Printf("[INFO] shutdown: %d windows accepted, %d dropped", stats.Accepted, stats.Dropped)
}
