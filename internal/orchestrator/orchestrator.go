// Package orchestrator owns the lifecycle of one agent-process invocation:
// spawn, prompt delivery, output decoding, timeout enforcement, and terminal
// status resolution.
package orchestrator

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"github.com/opencatalog/researchd/internal/domain"
	"github.com/opencatalog/researchd/internal/extract"
	"github.com/opencatalog/researchd/internal/registry"
	"github.com/opencatalog/researchd/internal/stream"
)

const defaultTimeout = 5 * time.Minute

// DefaultArgs is the fixed flag set requesting one-shot, verbose,
// line-delimited structured output and unattended operation, with the
// prompt read from stdin.
func DefaultArgs() []string {
	return []string{"-p", "-", "--output-format", "stream-json", "--verbose", "--dangerously-skip-permissions"}
}

// Config controls how the agent process is spawned.
type Config struct {
	// Command is the agent CLI binary. Defaults to "claude".
	Command string
	// Args overrides the spawn arguments. Defaults to DefaultArgs().
	Args []string
	// Timeout is the wall-clock budget per execution. Defaults to 5 minutes.
	Timeout time.Duration
	// WorkDir is the process working directory. Empty means the host
	// application's working directory.
	WorkDir string
}

// Orchestrator spawns agent processes and drives their output into the
// registry. It holds no per-execution state of its own; the registry record
// is the single source of truth.
type Orchestrator struct {
	registry *registry.Registry
	cfg      Config
}

// New creates an orchestrator, filling config defaults.
func New(reg *registry.Registry, cfg Config) *Orchestrator {
	if cfg.Command == "" {
		cfg.Command = "claude"
	}
	if cfg.Args == nil {
		cfg.Args = DefaultArgs()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Orchestrator{registry: reg, cfg: cfg}
}

// Start creates the execution record, spawns the agent process, and returns
// the execution id immediately. All further work happens on background
// goroutines; callers observe progress through the registry.
func (o *Orchestrator) Start(subjectKey, prompt string) string {
	id := "exec_" + uuid.New().String()[:8]
	o.registry.Create(id, subjectKey)

	cmd := exec.Command(o.cfg.Command, o.cfg.Args...)
	cmd.Dir = o.cfg.WorkDir
	// Stderr is diagnostic noise, never protocol data.
	cmd.Stderr = io.Discard

	stdin, err := cmd.StdinPipe()
	if err != nil {
		o.fail(id, fmt.Sprintf("failed to spawn agent process: %v", err), nil)
		return id
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		o.fail(id, fmt.Sprintf("failed to spawn agent process: %v", err), nil)
		return id
	}
	if err := cmd.Start(); err != nil {
		o.fail(id, fmt.Sprintf("failed to spawn agent process: %v", err), nil)
		return id
	}

	// Closing stdin signals "no more input"; the agent begins work once the
	// prompt is exhausted. Write errors are best-effort: a process that
	// exits before reading produces EPIPE here and a failure on Wait.
	go func() {
		if _, err := io.WriteString(stdin, prompt); err != nil {
			log.Printf("WARN: execution %s: write prompt: %v", id, err)
		}
		stdin.Close()
	}()

	go o.run(id, cmd, stdout)
	return id
}

// run drives one spawned process to a terminal state.
func (o *Orchestrator) run(id string, cmd *exec.Cmd, stdout io.ReadCloser) {
	// Finalize before killing: the kill surfaces on Wait as a signal death,
	// and that path must lose the finalize race to this one.
	timer := time.AfterFunc(o.cfg.Timeout, func() {
		o.fail(id, fmt.Sprintf("execution timed out after %s", o.cfg.Timeout), nil)
		_ = cmd.Process.Kill()
	})

	var dec stream.Decoder
	buf := make([]byte, 4096)
	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			o.appendMessages(id, dec.Decode(buf[:n]))
		}
		if err != nil {
			break
		}
	}
	o.appendMessages(id, dec.Flush())

	err := cmd.Wait()
	// Disarm before resolving the exit. If the timer already fired, its
	// finalize won and every call below is a no-op: first finalize wins.
	timer.Stop()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if code < 0 {
				// Killed by signal. Never falls through to result
				// extraction: a signal-terminated run is a failed run.
				o.fail(id, fmt.Sprintf("agent process terminated by signal: %v", exitErr), nil)
			} else {
				o.fail(id, fmt.Sprintf("process exited with code %d", code), &code)
			}
			return
		}
		o.fail(id, fmt.Sprintf("agent process failed: %v", err), nil)
		return
	}

	snap, ok := o.registry.Snapshot(id)
	if !ok {
		return
	}
	result, found := extract.Result(snap.Events)
	if !found {
		o.fail(id, "no valid JSON result found in assistant output", nil)
		return
	}
	o.registry.Finalize(id, domain.StatusCompleted, result, "")
}

// appendMessages maps decoded stream messages to execution events. An
// assistant message with both prose and tool invocations yields one text
// event plus one tool_use event per invocation.
func (o *Orchestrator) appendMessages(id string, msgs []stream.Message) {
	for _, msg := range msgs {
		switch msg.Type {
		case stream.MessageInit:
			o.registry.Append(id, domain.NewEvent(domain.EventInit, domain.InitPayload{
				SessionID: msg.SessionID,
				Model:     msg.Model,
				Tools:     msg.Tools,
			}))
		case stream.MessageAssistant:
			if msg.Text != "" {
				o.registry.Append(id, domain.NewEvent(domain.EventText, domain.TextPayload{
					Content: msg.Text,
					Model:   msg.Model,
				}))
			}
			for _, tu := range msg.ToolUses {
				o.registry.Append(id, domain.NewEvent(domain.EventToolUse, domain.ToolUsePayload{
					ID:    tu.ID,
					Name:  tu.Name,
					Input: tu.Input,
				}))
			}
		case stream.MessageUser:
			for _, tr := range msg.ToolResults {
				o.registry.Append(id, domain.NewEvent(domain.EventToolResult, domain.ToolResultPayload{
					ToolUseID: tr.ToolUseID,
					Content:   tr.Content,
				}))
			}
		case stream.MessageResult:
			o.registry.Append(id, domain.NewEvent(domain.EventResult, domain.ResultPayload{
				SessionID:  msg.Result.SessionID,
				Usage:      msg.Result.Usage,
				DurationMs: msg.Result.DurationMs,
				CostUsd:    msg.Result.CostUsd,
				IsError:    msg.Result.IsError,
			}))
		}
	}
}

// fail finalizes an execution as failed and, when this call is the one that
// finalized it, appends a matching error event for stream clients.
func (o *Orchestrator) fail(id, message string, exitCode *int) {
	if !o.registry.Finalize(id, domain.StatusFailed, nil, message) {
		return
	}
	o.registry.Append(id, domain.NewEvent(domain.EventError, domain.ErrorPayload{
		Message:  message,
		ExitCode: exitCode,
	}))
	log.Printf("ERROR: execution %s failed: %s", id, message)
}

// Abort marks a running execution failed. Best-effort: the underlying
// process is not killed here; the wall-clock timeout remains the backstop.
func (o *Orchestrator) Abort(id string) bool {
	snap, ok := o.registry.Snapshot(id)
	if !ok || snap.Status != domain.StatusRunning {
		return false
	}
	return o.registry.Finalize(id, domain.StatusFailed, nil, "aborted by user")
}
