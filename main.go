// Package main provides the entry point for the Digit Sketch application.
package main

import (
	"log"

	fyneapp "fyne.io/fyne/v2/app"

	"digit-sketch/internal/app"
	"digit-sketch/internal/version"
	"digit-sketch/ui/mainwindow"
	"digit-sketch/ui/prefs"
)

const appTitle = "Digit Sketch"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := fyneapp.NewWithID("digit-sketch")
	fyneApp.Settings().SetTheme(&app.SketchTheme{})

	appState := app.NewState()
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, appState, appPrefs)

	win.SetCloseIntercept(func() {
		win.SaveGeometry()
		if err := appPrefs.Save(); err != nil {
			log.Printf("Saving preferences failed: %v", err)
		}
		win.Close()
	})

	win.ShowAndRun()
}
