package scope

import (
	"log"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"
)

type mouse struct {
	buttonPressed bool
	button        uint
}

func (v *View) connectMouse() {
	v.view.AddEvents(int(gdk.BUTTON_PRESS_MASK))
	v.view.AddEvents(int(gdk.BUTTON_RELEASE_MASK))
	v.view.AddEvents(int(gdk.SCROLL_MASK))
	v.view.Connect("button-press-event", v.onButtonPress)
	v.view.Connect("button-release-event", v.onButtonRelease)
	v.view.Connect("scroll-event", v.onScroll)
}

func (v *View) onButtonPress(da *gtk.DrawingArea, e *gdk.Event) {
	buttonEvent := gdk.EventButtonNewFromEvent(e)
	if v.mouse.buttonPressed {
		return
	}
	da.GrabFocus()

	v.mouse.buttonPressed = true
	v.mouse.button = buttonEvent.Button()

	widget := rect{bottom: float64(da.GetAllocatedHeight()), right: float64(da.GetAllocatedWidth())}
	switch v.mouse.button {
	case 1:
		v.controller.TriggerAt(widget.toFPoint(point{x: buttonEvent.X(), y: buttonEvent.Y()}))
	case 3:
		v.controller.FreeRun()
	default:
		log.Printf("[DEBUG] click %d", v.mouse.button)
	}
}

func (v *View) onButtonRelease(da *gtk.DrawingArea, e *gdk.Event) {
	v.mouse.buttonPressed = false
	v.mouse.button = 0
}

func (v *View) onScroll(da *gtk.DrawingArea, e *gdk.Event) {
	scrollEvent := gdk.EventScrollNewFromEvent(e)
	switch scrollEvent.Direction() {
	case gdk.SCROLL_UP:
		v.controller.FinerAmp()
	case gdk.SCROLL_DOWN:
		v.controller.CoarserAmp()
	default:
		log.Printf("[DEBUG] unknown scroll direction %d", scrollEvent.Direction())
	}
}
