package scope

import (
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"
)

type keyboard map[uint]func()

func (v *View) connectKeyboard() {
	v.keyboard = keyboard{
		gdk.KEY_m:     v.controller.CycleMode,
		gdk.KEY_o:     v.controller.ToggleOrientation,
		gdk.KEY_Up:    v.controller.FinerAmp,
		gdk.KEY_Down:  v.controller.CoarserAmp,
		gdk.KEY_Right: v.controller.ZoomIn,
		gdk.KEY_Left:  v.controller.ZoomOut,
		gdk.KEY_f:     v.controller.FreeRun,
	}

	v.view.SetCanFocus(true)
	v.view.AddEvents(int(gdk.KEY_PRESS_MASK) | int(gdk.KEY_RELEASE_MASK))

	v.view.Connect("key-press-event", v.onKeyPress)
	v.view.Connect("key-release-event", v.onKeyRelease)
}

func (v *View) onKeyPress(da *gtk.DrawingArea, event *gdk.Event) bool {
	keyEvent := gdk.EventKeyNewFromEvent(event)
	if action, ok := v.keyboard[keyEvent.KeyVal()]; ok {
		action()
		return true
	}
	return false
}

func (v *View) onKeyRelease(da *gtk.DrawingArea, event *gdk.Event) bool {
	return false
}
