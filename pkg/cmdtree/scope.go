package cmdtree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"

	cterrors "github.com/rileyhilliard/cmdtree/internal/errors"
)

// Handler executes a command. The returned code becomes the process exit
// code unless an error is returned.
type Handler interface {
	Run(ctx context.Context, inv *Invocation) (int, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, inv *Invocation) (int, error)

// Run calls f.
func (f HandlerFunc) Run(ctx context.Context, inv *Invocation) (int, error) {
	return f(ctx, inv)
}

// HandlerFactory builds a handler inside an invocation scope.
type HandlerFactory func(p Provider) (Handler, error)

// Provider resolves services for one invocation.
type Provider interface {
	// ResolveHandler returns the handler registered for a command key, or
	// nil with no error when none is registered.
	ResolveHandler(key string) (Handler, error)

	// Resolve returns the service registered for t, failing with
	// ErrServiceNotRegistered when there is none.
	Resolve(t reflect.Type) (any, error)

	// OnClose registers cleanup to run when the scope ends.
	OnClose(fn func() error)
}

// Require resolves a service of type T from p.
func Require[T any](p Provider) (T, error) {
	var zero T
	v, err := p.Resolve(reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, cterrors.WrapWithCode(ErrTypeMismatch, cterrors.ErrDispatch,
			fmt.Sprintf("Service registered for %s has type %T", reflect.TypeFor[T](), v), "")
	}
	return t, nil
}

// Services holds the keyed handler registrations and typed service
// factories. Factories run lazily, once per scope.
type Services struct {
	mu        sync.RWMutex
	handlers  map[string]HandlerFactory
	factories map[reflect.Type]func(Provider) (any, error)
}

// NewServices creates an empty service collection.
func NewServices() *Services {
	return &Services{
		handlers:  make(map[string]HandlerFactory),
		factories: make(map[reflect.Type]func(Provider) (any, error)),
	}
}

// AddHandler binds a handler factory to a command key.
func (s *Services) AddHandler(key string, factory HandlerFactory) error {
	if factory == nil {
		return cterrors.New(cterrors.ErrRegistry,
			fmt.Sprintf("Handler factory for %q is nil", key), "")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.handlers[key]; exists {
		return cterrors.WrapWithCode(ErrDuplicateKey, cterrors.ErrRegistry,
			fmt.Sprintf("A handler is already registered for command key %q", key),
			"Register one handler per command key")
	}
	s.handlers[key] = factory
	return nil
}

// HasHandler reports whether a handler is bound to key.
func (s *Services) HasHandler(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.handlers[key]
	return ok
}

// Provide registers a scoped factory for T. A later registration replaces
// an earlier one.
func Provide[T any](s *Services, factory func(p Provider) (T, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.factories[reflect.TypeFor[T]()] = func(p Provider) (any, error) {
		return factory(p)
	}
}

// ProvideValue registers a fixed instance for T.
func ProvideValue[T any](s *Services, value T) {
	Provide(s, func(Provider) (T, error) { return value, nil })
}

// NewScope starts an invocation scope.
func (s *Services) NewScope() *Scope {
	return &Scope{
		services:  s,
		instances: make(map[reflect.Type]any),
	}
}

// Scope is the lifetime of one invocation's services. Instances are cached
// per scope and disposed by Close in reverse order of creation.
type Scope struct {
	services *Services

	mu        sync.Mutex
	instances map[reflect.Type]any
	closers   []func() error
	closed    bool
}

// ResolveHandler builds the handler bound to key. A panicking factory is
// reported as an error.
func (sc *Scope) ResolveHandler(key string) (h Handler, err error) {
	sc.services.mu.RLock()
	factory, ok := sc.services.handlers[key]
	sc.services.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	defer func() {
		if r := recover(); r != nil {
			h = nil
			err = cterrors.New(cterrors.ErrDispatch,
				fmt.Sprintf("Handler factory for %q panicked: %v", key, r), "")
		}
	}()
	return factory(sc)
}

// Resolve returns the scoped instance for t, creating it on first use.
func (sc *Scope) Resolve(t reflect.Type) (any, error) {
	sc.mu.Lock()
	if v, ok := sc.instances[t]; ok {
		sc.mu.Unlock()
		return v, nil
	}
	sc.mu.Unlock()

	sc.services.mu.RLock()
	factory, ok := sc.services.factories[t]
	sc.services.mu.RUnlock()
	if !ok {
		return nil, cterrors.WrapWithCode(ErrServiceNotRegistered, cterrors.ErrDispatch,
			fmt.Sprintf("No service registered for %s", t),
			"Register it with cmdtree.Provide before running the host")
	}

	v, err := factory(sc)
	if err != nil {
		return nil, err
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if existing, ok := sc.instances[t]; ok {
		return existing, nil
	}
	sc.instances[t] = v
	if c, ok := v.(io.Closer); ok {
		sc.closers = append(sc.closers, c.Close)
	}
	return v, nil
}

// OnClose registers fn to run when the scope is closed.
func (sc *Scope) OnClose(fn func() error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.closers = append(sc.closers, fn)
}

// Close runs cleanups in reverse registration order. Calling Close twice
// is a no-op.
func (sc *Scope) Close() error {
	sc.mu.Lock()
	if sc.closed {
		sc.mu.Unlock()
		return nil
	}
	sc.closed = true
	closers := sc.closers
	sc.closers = nil
	sc.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
