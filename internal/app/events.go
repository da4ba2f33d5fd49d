package app

import (
	"github.com/bethropolis/quill/internal/event"
	"github.com/bethropolis/quill/internal/logger"
)

// subscribe wires the app-level reactions to editor events. The status bar
// subscribes itself for mode and tab changes.
func (a *App) subscribe() {
	a.eventManager.Subscribe(event.TypeBufferLoaded, a.handleBufferLoadedForStatus)
	a.eventManager.Subscribe(event.TypeBufferSaved, a.handleBufferSavedForStatus)
	a.eventManager.Subscribe(event.TypeRunFinished, a.handleRunFinished)
	a.eventManager.Subscribe(event.TypeAppQuit, a.handleAppQuit)
}

func (a *App) handleBufferLoadedForStatus(e event.Event) bool {
	if data, ok := e.Data.(event.BufferLoadedData); ok {
		a.statusBar.SetFileInfo(data.FilePath, false)
	}
	return false
}

func (a *App) handleBufferSavedForStatus(e event.Event) bool {
	if data, ok := e.Data.(event.BufferSavedData); ok {
		logger.DebugTagf("event", "App: saved %s", data.FilePath)
	}
	return false
}

func (a *App) handleRunFinished(e event.Event) bool {
	if data, ok := e.Data.(event.RunFinishedData); ok && data.ExitCode != 0 {
		logger.Infof("App: %s exited with %d (%d links)", data.FilePath, data.ExitCode, data.Links)
	}
	return false
}

func (a *App) handleAppQuit(event.Event) bool {
	logger.Infof("App: session saved, exiting")
	return false
}
