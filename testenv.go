package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"locap/audio"
	"locap/caption"
	"locap/config"
	"locap/layout"
	"locap/log"
	"locap/recognizer"
	"locap/transcriber"
)

// stdoutTarget prints render commands as plain lines so test drivers
// can assert on them.
type stdoutTarget struct{}

func (stdoutTarget) SetHistoryLine(i int, text string) {
	if text != "" {
		fmt.Printf("HISTORY %d %s\n", i, text)
	}
}
func (stdoutTarget) SetPartial(text string) {
	if text != "" {
		fmt.Printf("PARTIAL %s\n", text)
	}
}
func (stdoutTarget) ShowError(text string) { fmt.Printf("ERROR %s\n", text) }
func (stdoutTarget) ApplyStyle(s caption.Style) { fmt.Printf("STYLE %dpt wrap=%d\n", s.FontSize, s.WrapWidth) }
func (stdoutTarget) ApplyGeometry(g layout.Geometry) {
	fmt.Printf("GEOMETRY %dx%d+%d+%d\n", g.Width, g.Height, g.X, g.Y)
}

func runTestMode(wavPath string, factory recognizer.Factory, modelPath string, settings config.Settings) {
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	fakeCtx, err := audio.NewFakeContext(wavPath, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading WAV: %v\n", err)
		os.Exit(1)
	}

	worker := transcriber.NewWorker(fakeCtx, nil, factory, modelPath)
	presenter := NewPresenter(stdoutTarget{}, worker.Events(), settings, 1920, 1080)
	go presenter.Run()

	log.SessionStart(modelPath, "test")

	// Stdin driver -- START/STOP the worker, wait, quit
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		cmd := strings.TrimSpace(scanner.Text())
		switch cmd {
		case "START":
			if err := worker.Start(); err != nil {
				fmt.Fprintf(os.Stderr, "start error: %v\n", err)
			}
		case "STOP":
			worker.Stop()
		case "QUIT":
			worker.Stop()
			presenter.Stop()
			log.SessionEnd(presenter.Finals())
			os.Exit(0)
		default:
			if strings.HasPrefix(cmd, "SLEEP ") {
				if ms, err := strconv.Atoi(cmd[6:]); err == nil {
					time.Sleep(time.Duration(ms) * time.Millisecond)
				}
			}
		}
	}
	worker.Stop()
	presenter.Stop()
	log.SessionEnd(presenter.Finals())
}
