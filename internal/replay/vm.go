package replay

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
)

const (
	scriptInitTimeout = 2 * time.Second
	scriptCallTimeout = 1 * time.Second
)

// Verifier wraps a sandboxed goja runtime so operators can write small
// scripts that accept or reject replayed results, e.g. flagging scores that
// are possible but implausible for the mode.
//
// A script defines verify(result) and returns a truthy value to accept:
//
//	function verify(r) {
//	    if (r.mode === "battle" && r.score !== 50 && r.score !== 0) return false;
//	    return r.score === r.claimed;
//	}
type Verifier struct {
	runtime *goja.Runtime
	mu      sync.Mutex

	logs []string
}

// NewVerifier creates a sandboxed runtime with the hub globals injected.
func NewVerifier() *Verifier {
	v := &Verifier{runtime: goja.New()}

	// log(...args) — appends to the verifier's log buffer
	v.runtime.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		v.logs = append(v.logs, strings.Join(parts, " "))
		return goja.Undefined()
	})

	// Block dangerous globals.
	v.runtime.Set("require", goja.Undefined())
	v.runtime.Set("fetch", goja.Undefined())
	v.runtime.Set("XMLHttpRequest", goja.Undefined())
	v.runtime.Set("eval", goja.Undefined())
	v.runtime.Set("Function", goja.Undefined())

	return v
}

// Execute loads the verifier script. Called once; the script must define
// verify(result).
func (v *Verifier) Execute(source string) error {
	return v.runWithTimeout(scriptInitTimeout, func() error {
		v.mu.Lock()
		defer v.mu.Unlock()
		if _, err := v.runtime.RunString(source); err != nil {
			return fmt.Errorf("replay: script execution error: %w", err)
		}
		return nil
	})
}

// Check replays the recording and feeds the result to the script's verify().
// It returns true when both the deterministic replay matches the claimed
// score and the script accepts the result.
func (v *Verifier) Check(rec Recording, claimed int64) (bool, error) {
	result, err := Run(rec)
	if err != nil {
		return false, err
	}
	if result.Score != claimed {
		return false, nil
	}

	accepted := false
	err = v.runWithTimeout(scriptCallTimeout, func() error {
		v.mu.Lock()
		defer v.mu.Unlock()

		fn := v.runtime.Get("verify")
		if fn == nil || goja.IsUndefined(fn) || goja.IsNull(fn) {
			return fmt.Errorf("replay: verify() function is not defined")
		}
		callable, ok := goja.AssertFunction(fn)
		if !ok {
			return fmt.Errorf("replay: verify is not a function")
		}

		arg := v.runtime.NewObject()
		arg.Set("engine", rec.EngineID)
		arg.Set("seed", rec.Seed)
		arg.Set("moves", len(rec.Steps))
		arg.Set("mode", string(result.Mode))
		arg.Set("outcome", string(result.Outcome))
		arg.Set("score", result.Score)
		arg.Set("coins", result.Coins)
		arg.Set("claimed", claimed)

		out, err := callable(goja.Undefined(), arg)
		if err != nil {
			return fmt.Errorf("replay: verify() error: %w", err)
		}
		accepted = out.ToBoolean()
		return nil
	})
	if err != nil {
		return false, err
	}
	return accepted, nil
}

// Logs returns a copy of the messages the script logged.
func (v *Verifier) Logs() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.logs))
	copy(out, v.logs)
	return out
}

func (v *Verifier) runWithTimeout(timeout time.Duration, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		// Interrupt a runaway script execution.
		v.runtime.Interrupt("script execution timeout")
		select {
		case err := <-done:
			if err != nil {
				return fmt.Errorf("replay: script timed out: %w", err)
			}
			return fmt.Errorf("replay: script timed out")
		case <-time.After(200 * time.Millisecond):
			return fmt.Errorf("replay: script timed out")
		}
	}
}
