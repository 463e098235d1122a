package recognizer

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/mattn/go-shellwords"

	"locap/log"
)

// ErrBadOutput marks a malformed decoder response. It is a contract
// violation of the engine process, not a user-facing condition: callers
// log it and drop the step instead of rendering it as caption text.
var ErrBadOutput = errors.New("malformed engine output")

const execCloseTimeout = 2 * time.Second

// ExecEngine runs a decoder subprocess and speaks a lockstep stdio
// protocol with it: each Accept writes one length-prefixed PCM block to
// stdin and reads exactly one JSON line from stdout, either
// {"partial":"..."} or {"text":"...","final":true}.
type ExecEngine struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
}

type engineLine struct {
	Text    *string `json:"text"`
	Partial *string `json:"partial"`
}

// NewExecEngine parses command as a shell word list, appends the model
// flag, and starts the process. The process lives until Close.
func NewExecEngine(command, modelPath string) (*ExecEngine, error) {
	args, err := shellwords.NewParser().Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse engine command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("engine command is empty")
	}
	args = append(args, "--model", modelPath)

	cmd := exec.Command(args[0], args[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("engine stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("engine stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("engine stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start engine: %w", err)
	}

	go drainStderr(stderr)

	return &ExecEngine{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
	}, nil
}

func drainStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		log.Warnf("engine: %s", scanner.Text())
	}
}

func (e *ExecEngine) Accept(pcm []byte) (Result, error) {
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(pcm)))
	if _, err := e.stdin.Write(hdr[:]); err != nil {
		return Result{}, fmt.Errorf("write frame header: %w", err)
	}
	if _, err := e.stdin.Write(pcm); err != nil {
		return Result{}, fmt.Errorf("write frame: %w", err)
	}

	line, err := e.stdout.ReadBytes('\n')
	if err != nil {
		return Result{}, fmt.Errorf("read engine response: %w", err)
	}
	return parseLine(line)
}

func parseLine(line []byte) (Result, error) {
	var out engineLine
	if err := json.Unmarshal(line, &out); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrBadOutput, err)
	}
	switch {
	case out.Text != nil:
		return Result{Text: *out.Text, Final: true}, nil
	case out.Partial != nil:
		return Result{Text: *out.Partial}, nil
	}
	return Result{}, fmt.Errorf("%w: no text or partial field", ErrBadOutput)
}

// Close shuts the process down by closing stdin and waiting briefly. A
// process that ignores EOF gets killed; there is no graceful cancel for
// an in-flight decode.
func (e *ExecEngine) Close() error {
	e.stdin.Close()

	done := make(chan error, 1)
	go func() { done <- e.cmd.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(execCloseTimeout):
		e.cmd.Process.Kill()
		<-done
		return fmt.Errorf("engine did not exit, killed")
	}
}
