// Package script replays a YAML list of front-desk operations against a
// session and checks JSONPath expectations on each result.
//
// A script looks like:
//
//	start: "2024-03-12T09:00"
//	steps:
//	  - op: login
//	    args: {username: admin, password: admin}
//	  - op: checkin
//	    args: {name: Sara, id_number: ID9, phone: "055", room_id: 101, services: [2]}
//	    expect: {"$.status": active, "$.room_price": 300}
//	  - op: advance
//	    args: {by: 26h}
//	  - op: checkout
//	    args: {id: 2}
//	  - op: room_remove
//	    args: {id: 102}
//	    error: occupied
package script

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-ports/frontdesk/internal/clock"
	"github.com/go-ports/frontdesk/internal/models"
	"github.com/go-ports/frontdesk/internal/output"
	"github.com/go-ports/frontdesk/internal/service"
)

// Script is a parsed replay file.
type Script struct {
	// Start freezes the session clock at this time; empty keeps the wall
	// clock and disables the advance/set_time ops.
	Start string `yaml:"start"`
	Steps []Step `yaml:"steps"`
}

// Step is one operation.
type Step struct {
	Op     string         `yaml:"op"`
	Args   yaml.Node      `yaml:"args"`
	Expect map[string]any `yaml:"expect"`
	// Error, when set, requires the step to fail with a message containing it.
	Error string `yaml:"error"`
}

// Result is the outcome of one replayed step.
type Result struct {
	Index int    `json:"step"`
	Op    string `json:"op"`
	Value any    `json:"result,omitempty"`
	Error string `json:"error,omitempty"`
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script.Load: %w", err)
	}
	s, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("script.Load %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a script and checks that every op is known.
func Parse(raw []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	for i, st := range s.Steps {
		if _, ok := ops[st.Op]; !ok {
			return nil, fmt.Errorf("step %d: unknown op %q", i+1, st.Op)
		}
	}
	return &s, nil
}

// Clock returns a fake clock frozen at Start, or nil when Start is empty.
func (s *Script) Clock(loc *time.Location) (*clock.FakeClock, error) {
	if s.Start == "" {
		return nil, nil
	}
	t, err := models.ParseTime(s.Start, loc)
	if err != nil {
		return nil, fmt.Errorf("script start: %w", err)
	}
	return clock.Fake(t), nil
}

// Ops returns the supported op names, sorted.
func Ops() []string {
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Runner replays scripts against one session.
type Runner struct {
	svc   *service.Service
	clock *clock.FakeClock
}

// NewRunner binds a runner to svc. clk may be nil when the session runs on
// the wall clock.
func NewRunner(svc *service.Service, clk *clock.FakeClock) *Runner {
	return &Runner{svc: svc, clock: clk}
}

// Run replays every step in order and stops at the first step that fails
// or misses an expectation.
func (r *Runner) Run(ctx context.Context, s *Script) ([]Result, error) {
	results := make([]Result, 0, len(s.Steps))
	for i := range s.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		st := &s.Steps[i]
		res, err := r.step(i+1, st)
		results = append(results, res)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
	}
	return results, nil
}

func (r *Runner) step(index int, st *Step) (Result, error) {
	res := Result{Index: index, Op: st.Op}
	fn, ok := ops[st.Op]
	if !ok {
		return res, fmt.Errorf("unknown op %q", st.Op)
	}

	value, err := fn(r, &st.Args)
	if st.Error != "" {
		if err == nil {
			return res, fmt.Errorf("expected error containing %q, got success", st.Error)
		}
		if !strings.Contains(err.Error(), st.Error) {
			return res, fmt.Errorf("expected error containing %q, got: %w", st.Error, err)
		}
		res.Error = err.Error()
		return res, nil
	}
	if err != nil {
		return res, err
	}

	if value != nil {
		if res.Value, err = output.ToJSONValue(value); err != nil {
			return res, err
		}
	}
	return res, checkExpect(res.Value, st.Expect)
}

// checkExpect compares every JSONPath in expect against got. Both sides are
// normalized to their JSON shape, so YAML 300 matches JSON 300.
func checkExpect(got any, expect map[string]any) error {
	paths := make([]string, 0, len(expect))
	for p := range expect {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	for _, p := range paths {
		actual, err := output.Query(got, p)
		if err != nil {
			return err
		}
		want, err := output.ToJSONValue(expect[p])
		if err != nil {
			return err
		}
		if !reflect.DeepEqual(actual, want) {
			return fmt.Errorf("expect %s: got %v, want %v", p, actual, want)
		}
	}
	return nil
}
