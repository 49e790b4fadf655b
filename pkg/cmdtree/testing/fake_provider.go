// Package testing provides test doubles for the cmdtree package.
package testing

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/rileyhilliard/cmdtree/pkg/cmdtree"
)

// FakeProvider is an in-memory cmdtree.Provider. Handlers and services are
// registered directly; resolution calls are recorded for assertions.
type FakeProvider struct {
	mu       sync.Mutex
	handlers map[string]cmdtree.Handler
	failures map[string]error
	services map[reflect.Type]any
	closers  []func() error

	// Tracking for assertions
	ResolveHandlerCalls []string
	ResolveCalls        []reflect.Type
	Closed              bool
}

// NewFakeProvider creates an empty provider.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		handlers: make(map[string]cmdtree.Handler),
		failures: make(map[string]error),
		services: make(map[reflect.Type]any),
	}
}

// AddHandler binds h to key.
func (p *FakeProvider) AddHandler(key string, h cmdtree.Handler) *FakeProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[key] = h
	return p
}

// AddFailingHandler makes resolution of key fail with err.
func (p *FakeProvider) AddFailingHandler(key string, err error) *FakeProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		err = errors.New("handler resolution failed")
	}
	p.failures[key] = err
	return p
}

// AddService registers v under its dynamic type.
func (p *FakeProvider) AddService(v any) *FakeProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.services[reflect.TypeOf(v)] = v
	return p
}

// ResolveHandler implements cmdtree.Provider.
func (p *FakeProvider) ResolveHandler(key string) (cmdtree.Handler, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ResolveHandlerCalls = append(p.ResolveHandlerCalls, key)
	if err, ok := p.failures[key]; ok {
		return nil, err
	}
	return p.handlers[key], nil
}

// Resolve implements cmdtree.Provider.
func (p *FakeProvider) Resolve(t reflect.Type) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ResolveCalls = append(p.ResolveCalls, t)
	v, ok := p.services[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", cmdtree.ErrServiceNotRegistered, t)
	}
	return v, nil
}

// OnClose implements cmdtree.Provider.
func (p *FakeProvider) OnClose(fn func() error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closers = append(p.closers, fn)
}

// Close runs registered cleanups in reverse order.
func (p *FakeProvider) Close() error {
	p.mu.Lock()
	closers := p.closers
	p.closers = nil
	p.Closed = true
	p.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordingHandler is a cmdtree.Handler that records its invocations and
// returns a canned result.
type RecordingHandler struct {
	Code  int
	Err   error
	Panic any

	// Block makes Run wait for context cancellation and return its error.
	Block bool

	mu    sync.Mutex
	Calls []string
}

// Run implements cmdtree.Handler.
func (h *RecordingHandler) Run(ctx context.Context, inv *cmdtree.Invocation) (int, error) {
	h.mu.Lock()
	h.Calls = append(h.Calls, inv.CommandKey())
	h.mu.Unlock()

	if h.Panic != nil {
		panic(h.Panic)
	}
	if h.Block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	return h.Code, h.Err
}

// CallCount returns how many times Run was called.
func (h *RecordingHandler) CallCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.Calls)
}
