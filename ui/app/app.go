package app

import (
	"log"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	coreapp "github.com/ftl/iqscope/core/app"
	"github.com/ftl/iqscope/ui/scope"
)

// Run the application
func Run(controller Controller, args []string) {
	var err error
	a := &application{id: "ft.iqscope", controller: controller}
	a.app, err = gtk.ApplicationNew(a.id, glib.APPLICATION_FLAGS_NONE)
	if err != nil {
		log.Fatal("Cannot create application: ", err)
	}

	a.app.Connect("startup", a.startup)
	a.app.Connect("activate", a.activate)
	a.app.Connect("shutdown", a.shutdown)

	a.app.Run(args)
}

// Controller of the application.
type Controller interface {
	scope.Controller

	Startup() error
	Shutdown()
	SetFrameView(coreapp.FrameView)
}

type application struct {
	id         string
	app        *gtk.Application
	mainWindow *mainWindow
	controller Controller
}

func (a *application) startup() {
}

func (a *application) activate() {
	a.mainWindow = newMainWindow(a.app)
	a.controller.SetFrameView(scope.New(a.mainWindow.scopeArea, a.controller))

	err := a.controller.Startup()
	if err != nil {
		log.Fatal("Cannot start: ", err)
	}

	a.mainWindow.Show()
}

func (a *application) shutdown() {
	a.controller.Shutdown()
}
