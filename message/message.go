// Package message parses textual control messages into pipeline commands.
//
// A message is a name followed by parameters, either as "Name:p1,p2" or
// whitespace separated as "Name p1 p2". Parsing is all or nothing: a
// message with a wrong parameter count, an unparsable value or an invalid
// configuration is rejected whole and nothing is queued.
package message

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pthm-cable/smoothlife/config"
	"github.com/pthm-cable/smoothlife/kernel"
	"github.com/pthm-cable/smoothlife/pipeline"
	"github.com/pthm-cable/smoothlife/sigmoid"
	"github.com/pthm-cable/smoothlife/transition"
)

var (
	// ErrMalformed wraps every rejected message.
	ErrMalformed = errors.New("message: malformed")
	// ErrUnknown is returned for an unrecognized message name.
	ErrUnknown = errors.New("message: unknown")
)

// Target receives parsed messages. Worker-side effects go through Enqueue;
// brush and palette belong to the presenter.
type Target interface {
	Enqueue(cmd pipeline.Command) bool
	Step()
	SetBrush(b pipeline.Brush)
	SetPalette(p config.PaletteConfig) error
}

// Message is a parsed, validated message ready to apply.
type Message struct {
	Name   string
	Params []string
	apply  func(Target) error
}

// Apply delivers the message to t.
func (m Message) Apply(t Target) error { return m.apply(t) }

type parser func(params []string) (func(Target) error, error)

var parsers = map[string]parser{
	"Clear":          parseClear,
	"Splat":          parseSplat,
	"SetKernel":      parseSetKernel,
	"SetSmoother":    parseSetSmoother,
	"SetRunOptions":  parseSetRunOptions,
	"SetDrawOptions": parseSetDrawOptions,
	"SetBrush":       parseSetBrush,
	"SetPalette":     parseSetPalette,
}

// Parse parses one message.
func Parse(line string) (Message, error) {
	name, params := split(strings.TrimSpace(line))
	p, ok := parsers[name]
	if !ok {
		return Message{}, fmt.Errorf("%w message %q", ErrUnknown, name)
	}
	apply, err := p(params)
	if err != nil {
		return Message{}, fmt.Errorf("%w: %s: %w", ErrMalformed, name, err)
	}
	return Message{Name: name, Params: params, apply: apply}, nil
}

func split(line string) (string, []string) {
	if name, rest, ok := strings.Cut(line, ":"); ok {
		var params []string
		for _, p := range strings.Split(rest, ",") {
			if p = strings.TrimSpace(p); p != "" {
				params = append(params, p)
			}
		}
		return strings.TrimSpace(name), params
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

func wantParams(params []string, n int) error {
	if len(params) != n {
		return fmt.Errorf("want %d parameters, got %d", n, len(params))
	}
	return nil
}

func parseFloats(params []string) ([]float64, error) {
	out := make([]float64, len(params))
	for i, p := range params {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func enqueue(cmd pipeline.Command) func(Target) error {
	return func(t Target) error {
		if !t.Enqueue(cmd) {
			return fmt.Errorf("%s dropped: command queue full", cmd.Name)
		}
		return nil
	}
}

func parseClear(params []string) (func(Target) error, error) {
	if err := wantParams(params, 1); err != nil {
		return nil, err
	}
	v, err := parseFloats(params)
	if err != nil {
		return nil, err
	}
	return enqueue(pipeline.Clear(v[0])), nil
}

func parseSplat(params []string) (func(Target) error, error) {
	if err := wantParams(params, 0); err != nil {
		return nil, err
	}
	return enqueue(pipeline.Splat()), nil
}

// SetKernel: disc_radius, ring_radius, blend_radius.
func parseSetKernel(params []string) (func(Target) error, error) {
	if err := wantParams(params, 3); err != nil {
		return nil, err
	}
	v, err := parseFloats(params)
	if err != nil {
		return nil, err
	}
	cfg := kernel.Config{DiscRadius: v[0], RingRadius: v[1], BlendRadius: v[2]}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return enqueue(pipeline.SetKernel(cfg)), nil
}

// SetSmoother: timestep, dt, b1, d1, b2, d2, mode, sigmoid, mix, sn, sm.
// Timestep and the sigmoid families take a name or an index; mode is 1-4.
func parseSetSmoother(params []string) (func(Target) error, error) {
	if err := wantParams(params, 11); err != nil {
		return nil, err
	}
	ts, err := transition.ParseTimestep(params[0])
	if err != nil {
		return nil, err
	}
	mode, err := strconv.Atoi(params[6])
	if err != nil {
		return nil, fmt.Errorf("mode: %w", err)
	}
	sig, err := sigmoid.ParseFamily(params[7])
	if err != nil {
		return nil, err
	}
	mix, err := sigmoid.ParseFamily(params[8])
	if err != nil {
		return nil, err
	}
	v, err := parseFloats([]string{params[1], params[2], params[3], params[4], params[5], params[9], params[10]})
	if err != nil {
		return nil, err
	}

	cfg := transition.Config{
		Timestep: transition.TimestepConfig{Type: ts, DT: v[0]},
		B1:       v[1],
		D1:       v[2],
		B2:       v[3],
		D2:       v[4],
		Mode:     transition.Mode(mode),
		Sigmoid:  sig,
		Mix:      mix,
		SN:       v[5],
		SM:       v[6],
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return enqueue(pipeline.SetSmoother(cfg)), nil
}

// SetRunOptions builds the run mode from scratch out of at most two words,
// then wakes the worker so a paused loop picks it up.
func parseSetRunOptions(params []string) (func(Target) error, error) {
	if len(params) > 2 {
		return nil, fmt.Errorf("want at most 2 parameters, got %d", len(params))
	}
	mode, err := pipeline.RunDisabled.Apply(params...)
	if err != nil {
		return nil, err
	}
	send := enqueue(pipeline.SetRunMode(mode))
	return func(t Target) error {
		err := send(t)
		t.Step()
		return err
	}, nil
}

func parseSetDrawOptions(params []string) (func(Target) error, error) {
	if err := wantParams(params, 1); err != nil {
		return nil, err
	}
	buf, err := pipeline.ParseDrawBuffer(params[0])
	if err != nil {
		return nil, err
	}
	return enqueue(pipeline.SetDrawBuffer(buf)), nil
}

// SetBrush: radius, color. Values are clamped rather than rejected.
func parseSetBrush(params []string) (func(Target) error, error) {
	if err := wantParams(params, 2); err != nil {
		return nil, err
	}
	v, err := parseFloats(params)
	if err != nil {
		return nil, err
	}
	b := pipeline.Brush{Radius: v[0], Color: v[1]}.Clamped()
	return func(t Target) error {
		t.SetBrush(b)
		return nil
	}, nil
}

// SetPalette: repeating, then #rrggbb and percent position pairs.
func parseSetPalette(params []string) (func(Target) error, error) {
	if len(params)%2 != 1 {
		return nil, fmt.Errorf("want a repeating flag and color/stop pairs, got %d parameters", len(params))
	}
	rep, err := strconv.Atoi(params[0])
	if err != nil {
		return nil, fmt.Errorf("repeating: %w", err)
	}
	cfg := config.PaletteConfig{Kind: "gradient", Repeating: rep != 0}
	for i := 1; i < len(params); i += 2 {
		if !validHex(params[i]) {
			return nil, fmt.Errorf("color %q is not #rrggbb", params[i])
		}
		pos, err := strconv.ParseFloat(params[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("stop %d: %w", i/2+1, err)
		}
		cfg.Stops = append(cfg.Stops, config.PaletteStop{Color: params[i], Position: pos})
	}
	return func(t Target) error { return t.SetPalette(cfg) }, nil
}

func validHex(s string) bool {
	h, ok := strings.CutPrefix(s, "#")
	if !ok || len(h) != 6 {
		return false
	}
	_, err := strconv.ParseUint(h, 16, 32)
	return err == nil
}
