package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/soar/padtrack/frontend"
	"github.com/soar/padtrack/internal/config"
	"github.com/soar/padtrack/internal/console"
	"github.com/soar/padtrack/internal/device"
	"github.com/soar/padtrack/internal/device/sdljoy"
	"github.com/soar/padtrack/internal/hub"
	"github.com/soar/padtrack/internal/keysend"
	"github.com/soar/padtrack/internal/publish"
	"github.com/soar/padtrack/internal/sched"
	"github.com/soar/padtrack/internal/server"
	"github.com/soar/padtrack/internal/switcher"
	"github.com/soar/padtrack/internal/tray"
)

// Cross-platform signal handling: use os.Interrupt on all platforms
// On Windows: os.Interrupt is sent when Ctrl+C is pressed
// On Unix: os.Interrupt is equivalent to syscall.SIGINT
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	config.Flags(pflag.CommandLine)
	pflag.Parse()
	cfg, err := config.Load(pflag.CommandLine)
	if err != nil {
		log.Printf("Configuration error: %v", err)
		os.Exit(2)
	}
	if cfg.ConfigFile != "" {
		log.Printf("Using config file %s", cfg.ConfigFile)
	}

	// Create cancellable context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	consoleShutdown := make(chan struct{})
	reregisterConsole := console.SetupConsoleHandler(consoleShutdown)

	keys := newKeySender(cfg)

	// Create and start hub
	h := hub.NewHub()
	go h.Run(ctx)
	broadcaster := hub.NewBroadcaster(h)
	go broadcaster.Run(ctx)

	var pub *publish.Publisher
	if cfg.MQTTBroker != "" {
		pub, err = publish.Dial(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopic)
		if err != nil {
			log.Printf("MQTT feed disabled: %v", err)
		}
	}

	// Every device and switcher call runs on this loop, pinned to one OS
	// thread for SDL.
	loop := sched.New(true)
	go loop.Run(ctx)

	var sw *switcher.Switcher
	var startErr error
	err = loop.Do(ctx, func() {
		sw, startErr = startSwitcher(cfg, loop, keys, broadcaster, pub)
	})
	if err == nil {
		err = startErr
	}
	if err != nil {
		log.Printf("Startup failed: %v", err)
		cancel()
		<-loop.Done()
		os.Exit(1)
	}
	// SDL replaces the console handler during init.
	reregisterConsole()

	// Create and start HTTP server
	srv, err := server.New(h, broadcaster, sw.Remote(loop), frontend.Files, cfg.Listen)
	if err != nil {
		log.Fatalf("Web view setup failed: %v", err)
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	url := cfg.BrowserURL()
	log.Printf("padtrack started: %s", url)

	// Channel for tray-triggered shutdown
	shutdownRequested := make(chan struct{})

	var t *tray.Tray
	if cfg.TrayEnabled(runtime.GOOS) {
		t = tray.New(url, func() {
			close(shutdownRequested)
		})
		go t.Run(tray.GetIcon())
	} else {
		log.Println("Press Ctrl+C to exit")
	}
	if console.LaunchedFromExplorer() {
		tray.OpenBrowser(url)
	}

	// Wait for shutdown signal, tray request, or server error
	select {
	case <-sigCh:
		log.Println("Shutting down...")
	case <-consoleShutdown:
		log.Println("Shutting down...")
	case <-shutdownRequested:
		log.Println("Shutdown requested from tray")
	case err := <-serverErrCh:
		log.Printf("HTTP server error: %v", err)
	}
	cancel()

	// The loop closes the joystick before it stops.
	<-loop.Done()
	if pub != nil {
		pub.Close()
	}

	// Shutdown the HTTP server gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	if t != nil {
		t.Quit()
	}

	log.Println("padtrack stopped")
}

// startSwitcher opens the joystick and starts the poll tick. It must run on
// the loop goroutine.
func startSwitcher(cfg *config.Config, loop *sched.Loop, keys keysend.Sender,
	b *hub.Broadcaster, pub *publish.Publisher) (*switcher.Switcher, error) {

	sink := func(msg string) {
		log.Println(msg)
		b.PublishLog(msg)
	}

	dev, err := sdljoy.Open()
	switch {
	case errors.Is(err, device.ErrDeviceNotFound):
		sink("No joystick device found! Waiting for one to be connected.")
	case err != nil:
		return nil, err
	}
	loop.AtExit(dev.Close)

	sw, err := switcher.New(dev, keys, loop, switcher.Options{
		Profile:       cfg.Profile,
		Threshold:     cfg.Threshold,
		BaselineDelay: cfg.BaselineDelay,
		LogSink:       sink,
		OnFire: func(f switcher.Fire) {
			b.PublishFire(f)
			if pub != nil {
				pub.Publish(f)
			}
		},
		OnChange: b.PublishState,
	})
	if err != nil {
		return nil, err
	}

	sink("Using the first connected joystick for control assignments.")
	if dev.Connected() {
		sink("Using joystick: " + dev.Name())
	}
	view := sw.View()
	sink(fmt.Sprintf("Radio type %s; toggle threshold = %v", view.Profile, view.Threshold))
	b.PublishState(view)

	loop.SchedulePeriodic(cfg.PollInterval, sw.Tick)
	return sw, nil
}

func newKeySender(cfg *config.Config) keysend.Sender {
	if cfg.DryRun {
		log.Println("Dry run: key presses are only logged")
		return keysend.LogSender{}
	}
	kb, err := keysend.NewKeyboard(cfg.KeyboardSettle)
	if err != nil {
		log.Printf("Key injection unavailable, only logging key presses: %v", err)
		return keysend.LogSender{}
	}
	return kb
}
