// MacroSeq - keyframe timeline macro recorder and playback engine
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"sync"
	"syscall"
	"time"

	"macroseq/internal/api"
	"macroseq/internal/config"
	"macroseq/internal/engine"
	"macroseq/internal/input"
	"macroseq/internal/osutils"
	"macroseq/internal/tray"
)

const tickInterval = 16 * time.Millisecond

var (
	version  = "0.1.0"
	showVer  = flag.Bool("version", false, "Show version")
	listKeys = flag.Bool("list-keys", false, "List recognised key names")
	loadFile = flag.String("file", "", "Sequence file to load at startup")
	playFile = flag.String("play", "", "Play a sequence file once and exit")
	noTray   = flag.Bool("no-tray", false, "Run without the system tray icon")
	apiPort  = flag.Int("port", 0, "Override the API port from the config")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("macroseq version %s\n", version)
		return
	}

	if *listKeys {
		listKeyNames()
		return
	}

	cfgMgr, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	if err := cfgMgr.Load(); err != nil {
		log.Printf("Warning: failed to load config: %v", err)
	}

	if *playFile != "" {
		runHeadlessPlay(cfgMgr, *playFile)
		return
	}

	runService(cfgMgr)
}

func listKeyNames() {
	names := input.KnownKeys()
	sort.Strings(names)
	fmt.Println("Recognised key names:")
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
}

// engineOptions maps the persisted config onto engine behaviour
func engineOptions(cfg *config.Config) engine.Options {
	return engine.Options{
		MoveResolution:       cfg.Recording.MoveResolution,
		ClearBeforeRecording: cfg.Recording.ClearBeforeRecording,
		RecordKey:            cfg.Recording.RecordHotkey,
		StopKey:              cfg.Playback.StopHotkey,
		FailsafeEnabled:      cfg.Playback.FailsafeEnabled,
		FailsafeEdge:         cfg.Playback.FailsafeEdge,
	}
}

// runHeadlessPlay loads a sequence, plays it to completion and exits.
// No API server, no tray; the stop hotkey and failsafe still work.
func runHeadlessPlay(cfgMgr *config.Manager, path string) {
	cfg := cfgMgr.Get()

	eng := engine.New(input.NewCapture(), input.NewInjector(), engineOptions(cfg))
	if err := eng.Start(); err != nil {
		log.Printf("Warning: input capture unavailable: %v", err)
	}
	defer eng.Stop()

	if err := eng.LoadFile(path); err != nil {
		log.Fatalf("Failed to load %s: %v", path, err)
	}
	eng.SetRate(cfg.Playback.Speed)
	eng.SetRepeats(cfg.Playback.Repeats)

	done := make(chan struct{})
	eng.SetStateCallback(func(st engine.State) {
		if !st.Playing {
			select {
			case <-done:
			default:
				close(done)
			}
		}
	})

	log.Printf("Playing %s (%s to abort)", path, cfg.Playback.StopHotkey)
	eng.TogglePlay()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			eng.Tick(now.Sub(last))
			last = now
		case <-done:
			log.Println("Playback finished")
			return
		case <-sigCh:
			log.Println("Interrupted")
			return
		}
	}
}

func runService(cfgMgr *config.Manager) {
	log.Println("MacroSeq starting...")

	cfg := cfgMgr.Get()

	if runtime.GOOS == "windows" && !osutils.IsAdmin() {
		log.Println("Note: raw input capture may require administrator privileges")
	}

	eng := engine.New(input.NewCapture(), input.NewInjector(), engineOptions(cfg))
	if err := eng.Start(); err != nil {
		log.Printf("Warning: input capture unavailable: %v", err)
	}
	defer eng.Stop()

	eng.SetRate(cfg.Playback.Speed)
	eng.SetRepeats(cfg.Playback.Repeats)

	// Commands from the API, WebSocket clients and the tray are funnelled
	// onto the engine goroutine through this channel.
	commands := make(chan func(*engine.Engine), 64)
	dispatch := func(fn func(e *engine.Engine)) {
		commands <- fn
	}

	startFile := *loadFile
	if startFile == "" {
		startFile = cfg.General.LastFile
	}
	if startFile != "" {
		if err := eng.LoadFile(startFile); err != nil {
			log.Printf("Warning: failed to load %s: %v", startFile, err)
		}
	}

	// API server
	var apiServer *api.Server
	if cfg.General.APIEnabled {
		port := cfg.General.APIPort
		if *apiPort != 0 {
			port = *apiPort
		}

		if runtime.GOOS == "windows" {
			go func() {
				if err := osutils.EnsureFirewallRule(port); err != nil {
					log.Printf("Firewall warning: %v", err)
				}
			}()
		}

		apiServer = api.NewServer(cfgMgr, dispatch)
		go func() {
			if err := apiServer.Start(port); err != nil {
				log.Printf("API server error: %v", err)
			}
		}()
	}

	// Tray
	var t *tray.Tray
	if !*noTray && cfg.General.ShowTray {
		t = tray.New("MacroSeq - macro recorder", tray.Callbacks{
			OnRecord: func() { dispatch(func(e *engine.Engine) { e.ToggleRecording() }) },
			OnPlay:   func() { dispatch(func(e *engine.Engine) { e.TogglePlay() }) },
			OnSave: func() {
				dispatch(func(e *engine.Engine) {
					path := cfgMgr.Get().General.LastFile
					if path == "" {
						log.Println("Tray: no file to save to, use the API to pick one")
						return
					}
					if err := e.SaveFile(path); err != nil {
						log.Printf("Tray: save failed: %v", err)
					}
				})
			},
		})
	}

	eng.SetStateCallback(func(st engine.State) {
		if apiServer != nil {
			apiServer.BroadcastState(st)
		}
		if t != nil {
			t.Update(st.Recording, st.Playing)
		}
	})

	quit := make(chan struct{})
	var quitOnce sync.Once
	shutdown := func() {
		quitOnce.Do(func() {
			log.Println("Shutting down...")
			close(quit)
		})
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Engine loop
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()

		last := time.Now()
		for {
			select {
			case now := <-ticker.C:
				eng.Tick(now.Sub(last))
				last = now
			case fn := <-commands:
				fn(eng)
			case <-quit:
				return
			}
		}
	}()

	log.Println("MacroSeq running. Press Ctrl+C to stop.")

	if t != nil {
		go func() {
			<-sigCh
			shutdown()
			t.Stop()
		}()
		t.Run() // blocks on the main goroutine until Quit
		shutdown()
	} else {
		<-sigCh
		shutdown()
	}
}
