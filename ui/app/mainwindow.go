package app

import (
	"log"

	"github.com/gotk3/gotk3/gtk"
)

const (
	defaultWidth  = 1000
	defaultHeight = 400
)

type mainWindow struct {
	window    *gtk.ApplicationWindow
	scopeArea *gtk.DrawingArea
}

func newMainWindow(application *gtk.Application) *mainWindow {
	result := new(mainWindow)

	var err error
	result.window, err = gtk.ApplicationWindowNew(application)
	if err != nil {
		log.Fatal("Cannot create main window: ", err)
	}
	result.window.SetTitle("IQ Scope")
	result.window.SetDefaultSize(defaultWidth, defaultHeight)

	result.scopeArea, err = gtk.DrawingAreaNew()
	if err != nil {
		log.Fatal("Cannot create drawing area: ", err)
	}
	result.scopeArea.SetHExpand(true)
	result.scopeArea.SetVExpand(true)
	result.window.Add(result.scopeArea)

	return result
}

func (w *mainWindow) Show() {
	w.window.ShowAll()
	w.scopeArea.GrabFocus()
}
