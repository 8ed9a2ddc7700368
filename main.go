package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/dmolnar/joyremap/internal/config"
	"github.com/dmolnar/joyremap/internal/device"
	"github.com/dmolnar/joyremap/internal/hub"
	"github.com/dmolnar/joyremap/internal/pipeline"
	"github.com/dmolnar/joyremap/internal/profile"
	"github.com/dmolnar/joyremap/internal/server"
	"github.com/dmolnar/joyremap/internal/tray"
)

// Cross-platform signal handling: use os.Interrupt on all platforms
// On Windows: os.Interrupt is sent when Ctrl+C is pressed
// On Unix: os.Interrupt is equivalent to syscall.SIGINT
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)

	// Physical devices through SDL
	poller := device.NewSDLPoller()
	pollerDone := make(chan struct{})
	go func() {
		if err := poller.Run(ctx); err != nil {
			log.Printf("SDL poller error: %v", err)
		}
		close(pollerDone)
	}()

	// Virtual side: the console output stands in until a vJoy feeder
	// collaborator is wired. One full-capacity device keeps auto-mapping
	// usable out of the box.
	out := device.NewConsoleOutput([]device.VJoyInfo{{
		Device: 0,
		Exists: true,
		Axes: []profile.VirtAxis{
			profile.AxisX, profile.AxisY, profile.AxisZ,
			profile.AxisRX, profile.AxisRY, profile.AxisRZ,
			profile.Slider0, profile.Slider1,
		},
		Buttons:        32,
		ContinuousPovs: 2,
	}})

	pl := pipeline.New(poller, out, nil)

	store := profile.NewStore(cfg.ProfilesDir)
	if cfg.Profile != "" {
		p, err := store.Load(cfg.Profile)
		if err != nil {
			log.Fatalf("profile: %v", err)
		}
		pl.SetProfile(p)
		log.Printf("Active profile: %s (%d mappings)", p.Name, p.MappingCount())
	} else {
		log.Println("No active profile; pipeline idles until one is set")
	}

	go pl.Run(ctx, cfg.TickInterval())

	// Monitoring hub and HTTP server
	h := hub.NewHub()
	go h.Run()

	broadcaster := hub.NewBroadcaster(h, pl.Changes())
	go broadcaster.Run()

	srv := server.New(h, broadcaster, pl, cfg.ListenAddr)
	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	log.Printf("joyremap started: http://localhost%s", cfg.ListenAddr)

	// Channel for tray-triggered shutdown
	shutdownRequested := make(chan struct{})

	if cfg.Tray && runtime.GOOS == "windows" {
		go func() {
			t := tray.New("http://localhost"+cfg.ListenAddr, func() {
				close(shutdownRequested)
			})
			t.Run()
		}()
	} else {
		log.Println("Press Ctrl+C to exit")
	}

	select {
	case <-sigCh:
		log.Println("Shutting down...")
		cancel()
	case <-shutdownRequested:
		log.Println("Shutdown requested from tray")
		cancel()
	case err := <-serverErrCh:
		log.Printf("HTTP server error: %v", err)
		cancel()
	}

	<-pollerDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("joyremap stopped")
}
