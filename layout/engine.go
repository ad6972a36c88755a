package layout

import (
	"fmt"

	"github.com/tsawler/reportgen/fieldkey"
	"github.com/tsawler/reportgen/runlog"
	"github.com/tsawler/reportgen/style"
	"github.com/tsawler/reportgen/xlsx"
)

// EngineConfig holds configuration for field rendering.
type EngineConfig struct {
	// WarnUnmatched logs a warning for every column that is not in the
	// field table. Such columns are still rendered as narrative sections.
	// Default: false
	WarnUnmatched bool

	// SpacedFields are narrative fields rendered with 1.5 line spacing
	// instead of a trailing line break.
	// Default: recommended reserves for trinity's involvement:
	SpacedFields []fieldkey.Key
}

// DefaultEngineConfig returns the default configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		WarnUnmatched: false,
		SpacedFields:  []fieldkey.Key{fieldkey.TrinityReserves},
	}
}

// Engine renders case records into frames.
type Engine struct {
	styles     *style.Registry
	config     EngineConfig
	strategies map[fieldkey.Category]Strategy
	log        *runlog.Logger
}

// NewEngine returns an engine with the default configuration.
func NewEngine(styles *style.Registry, log runlog.Func) *Engine {
	return NewEngineWithConfig(styles, DefaultEngineConfig(), log)
}

// NewEngineWithConfig returns an engine with a custom configuration.
func NewEngineWithConfig(styles *style.Registry, config EngineConfig, log runlog.Func) *Engine {
	return &Engine{
		styles:     styles,
		config:     config,
		strategies: DefaultStrategies(),
		log:        runlog.New(log),
	}
}

// WithStrategy returns a copy of the engine that renders category with s.
func (e *Engine) WithStrategy(category fieldkey.Category, s Strategy) *Engine {
	strategies := make(map[fieldkey.Category]Strategy, len(e.strategies)+1)
	for k, v := range e.strategies {
		strategies[k] = v
	}
	strategies[category] = s
	return &Engine{styles: e.styles, config: e.config, strategies: strategies, log: e.log}
}

// Render places every column of rec into frame in column order and returns
// the final carry. Field failures are logged and skipped.
func (e *Engine) Render(frame *Frame, rec xlsx.Record) Carry {
	t := &Target{
		Frame:  frame,
		Styles: e.styles,
		Spaced: make(map[fieldkey.Key]bool, len(e.config.SpacedFields)),
	}
	for _, k := range e.config.SpacedFields {
		t.Spaced[fieldkey.Normalize(string(k))] = true
	}

	var carry Carry
	for i, label := range rec.Labels {
		var value string
		if i < len(rec.Values) {
			value = rec.Values[i]
		}
		f := NewField(label, value)
		if e.config.WarnUnmatched && !fieldkey.Known(f.Key) {
			e.log.Warn("Column %q is not a known field; rendered as a narrative section", f.Display)
		}

		next, err := e.renderField(t, f, carry)
		if err != nil {
			e.log.Warn("Failed to insert column %s: %v", f.Display, err)
			continue
		}
		carry = next
	}
	return carry
}

// renderField runs the field's strategy, turning a panic into an error.
func (e *Engine) renderField(t *Target, f Field, c Carry) (next Carry, err error) {
	s, ok := e.strategies[f.Category]
	if !ok {
		return c, fmt.Errorf("no strategy for %s", f.Category)
	}
	defer func() {
		if r := recover(); r != nil {
			next, err = c, fmt.Errorf("%v", r)
		}
	}()
	return s(t, f, c)
}
