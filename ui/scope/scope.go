package scope

import (
	"log"
	"sync"

	"github.com/gotk3/gotk3/cairo"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/ftl/iqscope/core"
)

// Controller for the scope view.
type Controller interface {
	SetSize(width, height core.Px)
	CycleMode()
	ToggleOrientation()
	FinerAmp()
	CoarserAmp()
	ZoomIn()
	ZoomOut()
	FreeRun()
	TriggerAt(core.FPoint)
}

// View of the scope.
type View struct {
	view       *gtk.DrawingArea
	controller Controller

	dataLock *sync.RWMutex
	frame    core.Frame

	width, height float64
	keyboard      keyboard
	mouse         mouse
}

// New returns a new scope view that draws into the given drawing area.
func New(area *gtk.DrawingArea, controller Controller) *View {
	result := &View{
		view:       area,
		controller: controller,
		dataLock:   new(sync.RWMutex),
	}
	result.view.Connect("draw", result.onDraw)
	result.connectKeyboard()
	result.connectMouse()

	return result
}

// ShowFrame stores the given frame and queues a redraw on the GTK main loop.
func (v *View) ShowFrame(frame core.Frame) {
	v.dataLock.Lock()
	v.frame = frame
	v.dataLock.Unlock()

	_, err := glib.IdleAdd(v.view.QueueDraw)
	if err != nil {
		log.Print("[ERROR] cannot queue redraw: ", err)
	}
}

func (v *View) onDraw(da *gtk.DrawingArea, cr *cairo.Context) {
	frame := func() core.Frame {
		v.dataLock.RLock()
		defer v.dataLock.RUnlock()
		return v.frame
	}()

	width, height := float64(da.GetAllocatedWidth()), float64(da.GetAllocatedHeight())
	if width != v.width || height != v.height {
		v.width, v.height = width, height
		v.controller.SetSize(core.Px(width), core.Px(height))
	}

	widget := rect{bottom: height, right: width}
	fillBackground(cr)
	drawLoops(cr, widget, frame.Loops)
	drawStrips(cr, widget, frame.Strips)
	drawScale(cr, widget, frame.Scale)
}
