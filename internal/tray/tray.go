package tray

import (
	"log"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"

	"fyne.io/systray"
)

// ShutdownFunc is called when "Exit" is clicked
type ShutdownFunc func()

// Tray manages the system tray icon and menu
type Tray struct {
	monitorURL   string
	shutdownFunc ShutdownFunc
	once         sync.Once
	shuttingDown atomic.Bool
	menuOpen     *systray.MenuItem
	menuExit     *systray.MenuItem
}

// New creates a new Tray instance
func New(monitorURL string, shutdownFn ShutdownFunc) *Tray {
	return &Tray{
		monitorURL:   monitorURL,
		shutdownFunc: shutdownFn,
	}
}

// Run initializes and runs the system tray (blocks until Quit())
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetTitle("joyremap")
	systray.SetTooltip("joyremap - " + t.monitorURL)

	t.menuOpen = systray.AddMenuItem("Open Monitor", "Open the live pipeline monitor")
	t.menuExit = systray.AddMenuItem("Exit", "Quit the bridge")

	// Handle menu clicks in separate goroutines to prevent blocking
	go t.handleMenuClicks()

	log.Println("System tray initialized")
}

func (t *Tray) handleMenuClicks() {
	for {
		select {
		case <-t.menuOpen.ClickedCh:
			if !t.shuttingDown.Load() {
				t.openBrowser()
			}
		case <-t.menuExit.ClickedCh:
			if t.shuttingDown.CompareAndSwap(false, true) {
				t.once.Do(t.shutdownFunc)
				systray.Quit()
				return
			}
		}
	}
}

func (t *Tray) onExit() {
	t.shuttingDown.Store(true)
	log.Println("System tray exiting")
}

// openBrowser opens the monitor page in the default web browser
func (t *Tray) openBrowser() {
	if t.shuttingDown.Load() {
		return
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", t.monitorURL)
	case "darwin":
		cmd = exec.Command("open", t.monitorURL)
	default:
		cmd = exec.Command("xdg-open", t.monitorURL)
	}

	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
