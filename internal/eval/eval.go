// Package eval runs submitted exercise code in an isolated JavaScript
// interpreter and checks it against the exercise's test cases.
package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dop251/goja"

	"coderoom/internal/models"
)

const (
	// PassMessage is shown when every test case matches.
	PassMessage = "All tests passed! 🎉"
	// FailMessage is shown when the code ran but a comparison failed.
	FailMessage = "Tests failed. Try again!"

	// DefaultTimeout bounds one evaluation. Submitted code can contain
	// infinite loops; the interpreter is interrupted when the budget runs out.
	DefaultTimeout = 2 * time.Second
)

// Result of one evaluation attempt.
type Result struct {
	Output string
	Passed bool
}

// Evaluator runs code with a fixed wall-clock budget per run.
type Evaluator struct {
	Timeout time.Duration
}

// New returns an evaluator with the default time budget.
func New() *Evaluator {
	return &Evaluator{Timeout: DefaultTimeout}
}

// Run evaluates the submitted code as a zero-argument `return <code>` body in
// a fresh VM and compares the produced value against every test case's
// expected value. Test case inputs are declared in the catalog but not
// injected; only the zero-argument result is compared. Evaluation errors are
// reported in the output, never returned as Go errors: a bad submission is a
// per-attempt failure, not a session fault.
func (e *Evaluator) Run(ctx context.Context, code string, exercise *models.Exercise) Result {
	value, err := e.evaluate(ctx, code)
	if err != nil {
		return Result{Output: "Error: " + errorMessage(err)}
	}

	got, err := json.Marshal(value)
	if err != nil {
		return Result{Output: "Error: " + err.Error()}
	}

	passed := true
	for _, tc := range exercise.TestCases {
		want, err := json.Marshal(tc.Expected)
		if err != nil || string(got) != string(want) {
			passed = false
			break
		}
	}

	if passed {
		return Result{Output: PassMessage, Passed: true}
	}
	return Result{Output: FailMessage}
}

// evaluate runs the code in an isolated VM and exports the resulting value.
// The VM is created per run and discarded, so submissions can never observe
// session state or each other.
func (e *Evaluator) evaluate(ctx context.Context, code string) (any, error) {
	vm := goja.New()

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-runCtx.Done():
			vm.Interrupt("evaluation timed out")
		case <-done:
		}
	}()

	// Same shape as evaluating `return <code>` in a throwaway function.
	value, err := vm.RunString("(function () { return " + code + "\n })()")
	if err != nil {
		return nil, err
	}
	return value.Export(), nil
}

// errorMessage unwraps goja exceptions to the thrown value's message, mirroring
// how a caught JS error reads.
func errorMessage(err error) string {
	if ex, ok := err.(*goja.Exception); ok {
		return ex.Error()
	}
	if _, ok := err.(*goja.InterruptedError); ok {
		return "evaluation timed out"
	}
	return fmt.Sprintf("%v", err)
}
