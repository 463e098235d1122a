package main

import (
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"locap/audio"
	"locap/config"
	"locap/doctor"
	"locap/log"
	"locap/recognizer"
	"locap/shutdown"
	"locap/transcriber"
)

var version = "dev"

// guiMode is set by initGUI before run starts.
var guiMode bool

var shutdownOnce sync.Once

// sink is the active render target; the GUI build swaps it in before
// run() starts.
var sink RenderTarget

func gracefulShutdown(worker *transcriber.Worker, presenter *Presenter) {
	shutdownOnce.Do(func() {
		if worker != nil {
			worker.Stop()
		}
		if presenter != nil {
			presenter.Stop()
			if n := presenter.Finals(); n > 0 {
				log.SessionEnd(n)
			}
			if err := presenter.Settings().Save(); err != nil {
				log.Warnf("saving settings: %v", err)
			}
		}
		log.Close()
		tuiMu.Lock()
		p := tuiProgram
		tuiMu.Unlock()
		if p != nil {
			p.Quit()
		}
		os.Exit(0)
	})
}

func initCrashLog() {
	dir, err := log.ResolveDir(os.Getenv("LOCAP_LOG_PATH"))
	if err != nil {
		return
	}
	if os.MkdirAll(dir, 0755) != nil {
		return
	}
	crashPath := filepath.Join(dir, "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}
}

func defaultModelPath() string {
	cache, err := os.UserCacheDir()
	if err != nil {
		return recognizer.ModelVersion
	}
	return filepath.Join(cache, "locap", recognizer.ModelVersion)
}

func run() {
	modelFlag := flag.String("model", "", "speech model directory (default: user cache dir, auto-downloaded)")
	modelURLFlag := flag.String("model-url", recognizer.DefaultModelURL, "model archive URL for first-run download")
	engineFlag := flag.String("engine", "vosk-streamer", "decoder command; receives length-prefixed PCM on stdin")
	setupFlag := flag.Bool("setup", false, "Select microphone device (otherwise uses system default)")
	deviceFlag := flag.String("device", "", "Use named microphone device")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	crashFlag := flag.Bool("crash", false, "Trigger synthetic panic for testing crash logging")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	profileFlag := flag.String("profile", "", "Enable pprof profiling server (e.g., :6060 or localhost:6060)")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven, WAV input)")
	flag.Bool("gui", false, "Run as a desktop overlay window instead of in the terminal")
	flag.Parse()

	// Resolve log directory early
	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)

	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	if *profileFlag != "" {
		go func() {
			fmt.Fprintf(os.Stderr, "pprof server listening on http://%s/debug/pprof/\n", *profileFlag)
			if err := http.ListenAndServe(*profileFlag, nil); err != nil {
				fmt.Fprintf(os.Stderr, "pprof server error: %v\n", err)
			}
		}()
	}

	if *crashFlag {
		panic("TEST CRASH: synthetic panic to verify crash logging")
	}

	if *versionFlag {
		fmt.Printf("locap %s\n", version)
		os.Exit(0)
	}

	modelPath := *modelFlag
	if modelPath == "" {
		modelPath = defaultModelPath()
	}

	if *doctorFlag {
		os.Exit(doctor.Run(modelPath, *engineFlag))
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	engineFactory := func(path string) (recognizer.Engine, error) {
		return recognizer.NewExecEngine(*engineFlag, path)
	}

	if *testFlag {
		args := flag.Args()
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "Usage: locap -test <wav-file>")
			os.Exit(1)
		}
		runTestMode(args[0], engineFactory, modelPath, settings)
		return
	}

	fmt.Printf("Preparing model %s...\n", filepath.Base(modelPath))
	if err := recognizer.EnsureModel(modelPath, *modelURLFlag); err != nil {
		log.Errorf("model acquisition error: %v", err)
		fmt.Fprintf(os.Stderr, "Error acquiring model: %v\n", err)
		os.Exit(1)
	}

	ctx, err := audio.NewContext()
	if err != nil {
		log.Errorf("audio context init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing audio context: %v\n", err)
		os.Exit(1)
	}
	defer ctx.Close()

	var selectedDevice *audio.DeviceInfo
	if *deviceFlag != "" {
		if devices, err := ctx.Devices(); err == nil {
			for i := range devices {
				if devices[i].Name == *deviceFlag {
					selectedDevice = &devices[i]
					break
				}
			}
		}
		if selectedDevice == nil {
			log.Warnf("device not found: %s", *deviceFlag)
			fmt.Fprintf(os.Stderr, "Warning: device %q not found, using default\n", *deviceFlag)
		}
	} else if *setupFlag && !guiMode {
		selectedDevice, err = selectDevice(ctx)
		if err != nil {
			log.Warnf("device selection failed: %v", err)
			fmt.Fprintf(os.Stderr, "Warning: device selection failed: %v\n", err)
			selectedDevice = nil
		}
	}

	worker := transcriber.NewWorker(ctx, selectedDevice, engineFactory, modelPath)

	var target RenderTarget = sink
	screenW, screenH := 1920, 1080
	if guiMode {
		screenW, screenH = guiScreenSize()
	} else {
		target = tuiTarget{}
	}

	presenter := NewPresenter(target, worker.Events(), settings, screenW, screenH)
	go presenter.Run()

	log.SessionStart(modelPath, *engineFlag)
	if err := worker.Start(); err != nil {
		log.Errorf("worker start error: %v", err)
	}

	// SIGHUP re-reads the settings file without restarting captions.
	reloadChan := make(chan os.Signal, 1)
	shutdown.NotifyReload(reloadChan)
	go func() {
		for range reloadChan {
			loaded, err := config.Load()
			if err != nil {
				log.Warnf("settings reload failed: %v", err)
				continue
			}
			log.Info("settings_reloaded")
			presenter.Update(func(s *config.Settings) { *s = loaded })
		}
	}()

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		gracefulShutdown(worker, presenter)
	}()

	if guiMode {
		// Fyne owns the calling goroutine; block here forever.
		select {}
	}

	tuiMu.Lock()
	tuiProgram = NewTUIProgram(tuiControls{
		toggle: func() {
			if worker.State() == transcriber.StateListening {
				worker.Stop()
			} else if err := worker.Start(); err != nil {
				log.Errorf("worker start error: %v", err)
			}
		},
		update: presenter.Update,
	})
	p := tuiProgram
	tuiMu.Unlock()

	if _, err := p.Run(); err != nil {
		log.Errorf("TUI error: %v", err)
	}
	gracefulShutdown(worker, presenter)
}
