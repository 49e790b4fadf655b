package cmdtree

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	cterrors "github.com/rileyhilliard/cmdtree/internal/errors"
)

// OptionHandlerStatus is the outcome of one option pre-action.
type OptionHandlerStatus struct {
	Name    string
	Success bool
	Message string
	Err     error
}

// CommandContext is the per-invocation state shared by option handlers and
// the command handler: a typed value store keyed by option name and the
// status of every option handler that reported one. Option handlers run
// concurrently, so all map access is serialized.
type CommandContext struct {
	parse *ParseResult

	mu       sync.RWMutex
	values   map[string]any
	statuses map[string]OptionHandlerStatus
}

// NewCommandContext creates the context for one parse result.
func NewCommandContext(parse *ParseResult) *CommandContext {
	return &CommandContext{
		parse:    parse,
		values:   make(map[string]any),
		statuses: make(map[string]OptionHandlerStatus),
	}
}

// CommandKey returns the key of the resolved command.
func (c *CommandContext) CommandKey() string {
	return c.parse.CommandKey()
}

// Parse returns the underlying parse result.
func (c *CommandContext) Parse() *ParseResult {
	return c.parse
}

// SetValue stores value under key. Nil values are rejected; callers that
// have nothing to store should not call SetValue.
func SetValue[T any](c *CommandContext, key string, value T) error {
	if isNil(value) {
		return cterrors.WrapWithCode(ErrNilValue, cterrors.ErrContext,
			fmt.Sprintf("Cannot store a nil value for %q", key),
			"Skip SetValue when there is nothing to store")
	}
	c.mu.Lock()
	c.values[key] = value
	c.mu.Unlock()
	return nil
}

// setAny stores an untyped pipeline result.
func (c *CommandContext) setAny(key string, value any) error {
	return SetValue[any](c, key, value)
}

// GetValue returns the value stored under key. An unset key yields the zero
// value and no error; a value of another type yields ErrTypeMismatch.
func GetValue[T any](c *CommandContext, key string) (T, error) {
	var zero T
	c.mu.RLock()
	v, ok := c.values[key]
	c.mu.RUnlock()
	if !ok {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, mismatch(key, v, zero)
	}
	return t, nil
}

// GetRequiredValue is GetValue but fails with ErrValueNotFound for unset keys.
func GetRequiredValue[T any](c *CommandContext, key string) (T, error) {
	var zero T
	c.mu.RLock()
	v, ok := c.values[key]
	c.mu.RUnlock()
	if !ok {
		return zero, cterrors.WrapWithCode(ErrValueNotFound, cterrors.ErrContext,
			fmt.Sprintf("No context value for %q", key),
			"Check that the option's handler ran and produced a value")
	}
	t, ok := v.(T)
	if !ok {
		return zero, mismatch(key, v, zero)
	}
	return t, nil
}

// HasValue reports whether a value is stored under key.
func (c *CommandContext) HasValue(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.values[key]
	return ok
}

// SetInputActionStatus records the status for status.Name. Last write wins.
func (c *CommandContext) SetInputActionStatus(status OptionHandlerStatus) {
	c.mu.Lock()
	c.statuses[status.Name] = status
	c.mu.Unlock()
}

// Status returns the recorded status for an option.
func (c *CommandContext) Status(name string) (OptionHandlerStatus, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.statuses[name]
	return s, ok
}

// InputActionStatuses returns all recorded statuses ordered by name.
func (c *CommandContext) InputActionStatuses() []OptionHandlerStatus {
	c.mu.RLock()
	out := make([]OptionHandlerStatus, 0, len(c.statuses))
	for _, s := range c.statuses {
		out = append(out, s)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// HasInputActionError reports whether any recorded status failed.
func (c *CommandContext) HasInputActionError() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.statuses {
		if !s.Success {
			return true
		}
	}
	return false
}

// HasParsingError reflects the parser's error list at call time.
func (c *CommandContext) HasParsingError() bool {
	return len(c.parse.Errors()) > 0
}

// HasShortCircuitOptions reports whether a terminating option was triggered.
func (c *CommandContext) HasShortCircuitOptions() bool {
	return c.parse.ShortCircuit() != nil
}

func mismatch(key string, got, want any) error {
	return cterrors.WrapWithCode(ErrTypeMismatch, cterrors.ErrContext,
		fmt.Sprintf("Context value %q is %T, not %T", key, got, want), "")
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
