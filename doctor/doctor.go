// Package doctor runs interactive system diagnostics: audio capture,
// model presence, and decoder subprocess health.
package doctor

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"os/exec"
	"sync"
	"time"

	"locap/audio"
	"locap/recognizer"
)

// Run executes the checks and returns an exit code (0=all pass, 1=any fail).
func Run(modelPath, engineCmd string) int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("locap doctor - system diagnostics")
	fmt.Println("==================================")

	allPass := true

	if !checkMicrophone() {
		allPass = false
	}
	if !checkModel(modelPath) {
		allPass = false
	}
	if allPass && !checkEngine(engineCmd, modelPath) {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func checkMicrophone() bool {
	fmt.Println()
	fmt.Println("[1/3] Microphone capture")

	ctx, err := audio.NewContext()
	if err != nil {
		fmt.Printf("  FAIL: cannot connect to audio: %v\n", err)
		return false
	}
	defer ctx.Close()

	devices, err := ctx.Devices()
	if err != nil {
		fmt.Printf("  FAIL: cannot list devices: %v\n", err)
		return false
	}
	if len(devices) == 0 {
		fmt.Println("  FAIL: no capture devices found")
		return false
	}
	for _, d := range devices {
		fmt.Printf("  found: %s\n", d.Name)
	}

	fmt.Print("  Recording 2 seconds from the default device...")
	pcm, err := recordAudio(ctx, nil, 2*time.Second)
	if err != nil {
		fmt.Printf("\n  FAIL: recording error: %v\n", err)
		return false
	}
	fmt.Println(" done")

	if len(pcm) == 0 {
		fmt.Println("  FAIL: no audio captured")
		return false
	}

	rms := pcmRMS(pcm)
	fmt.Printf("  Captured %.1f KB, level %.4f RMS\n", float64(len(pcm))/1024, rms)
	if rms == 0 {
		fmt.Println("  WARN: captured pure silence (muted microphone?)")
	}
	fmt.Println("  PASS: capture works")
	return true
}

func checkModel(modelPath string) bool {
	fmt.Println()
	fmt.Println("[2/3] Speech model")

	info, err := os.Stat(modelPath)
	if err != nil {
		fmt.Printf("  model not found at %s\n", modelPath)
		fmt.Printf("  it will be downloaded from %s on first run\n", recognizer.DefaultModelURL)
		fmt.Println("  PASS: model acquisition configured")
		return true
	}
	if !info.IsDir() {
		fmt.Printf("  FAIL: %s exists but is not a directory\n", modelPath)
		return false
	}
	fmt.Printf("  PASS: model present at %s\n", modelPath)
	return true
}

func checkEngine(engineCmd, modelPath string) bool {
	fmt.Println()
	fmt.Println("[3/3] Decoder subprocess")

	if _, err := exec.LookPath(engineCmd); err != nil {
		fmt.Printf("  FAIL: decoder command not found: %v\n", err)
		return false
	}

	engine, err := recognizer.NewExecEngine(engineCmd, modelPath)
	if err != nil {
		fmt.Printf("  FAIL: cannot start decoder: %v\n", err)
		return false
	}
	defer engine.Close()

	// One silence block must round-trip through the stdio protocol.
	silence := make([]byte, audio.BlockBytes)
	if _, err := engine.Accept(silence); err != nil {
		fmt.Printf("  FAIL: decoder did not answer a silence block: %v\n", err)
		return false
	}
	fmt.Println("  PASS: decoder answers the wire protocol")
	return true
}

func recordAudio(ctx audio.Context, device *audio.DeviceInfo, d time.Duration) ([]byte, error) {
	var pcmBuf []byte
	var bufMu sync.Mutex
	var stopped bool

	config := audio.CaptureConfig{
		SampleRate: audio.SampleRate,
		Channels:   audio.Channels,
	}

	captureDevice, err := ctx.NewCapture(device, config)
	if err != nil {
		return nil, err
	}

	captureDevice.SetCallback(func(data []byte, frameCount uint32) {
		bufMu.Lock()
		if !stopped {
			pcmBuf = append(pcmBuf, data...)
		}
		bufMu.Unlock()
	})

	if err := captureDevice.Start(); err != nil {
		captureDevice.Close()
		return nil, err
	}

	time.Sleep(d)

	captureDevice.Stop()
	captureDevice.Close()

	bufMu.Lock()
	stopped = true
	raw := pcmBuf
	bufMu.Unlock()

	return raw, nil
}

func pcmRMS(data []byte) float64 {
	if len(data) < 2 {
		return 0
	}
	var sumSquares float64
	for i := 0; i+1 < len(data); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(data[i:]))
		normalized := float64(sample) / 32768.0
		sumSquares += normalized * normalized
	}
	return math.Sqrt(sumSquares / float64(len(data)/2))
}
