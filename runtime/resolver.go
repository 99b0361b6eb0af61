// Package runtime reconstructs types at run time by executing bytecode
// programs and by inferring types from Go values.
//
// A Resolver executes a program on a private stack machine and memoizes
// the result per program and generic arguments in a shared Cache.  Results
// of nested resolutions (class references and inlined programs) are
// published to the cache only when the outermost resolution succeeds, so a
// failed resolution leaves no trace.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	deepkit "github.com/wilcoxmd/deepkit-framework"
	"github.com/wilcoxmd/deepkit-framework/bytecode"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Resolver struct {
	config   Config
	registry *Registry
	cache    *Cache
	logger   *zap.Logger
}

type Option func(*Resolver)

func WithConfig(c Config) Option {
	return func(r *Resolver) { r.config = c }
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

func WithRegistry(registry *Registry) Option {
	return func(r *Resolver) { r.registry = registry }
}

// WithCache shares cache between resolvers.
func WithCache(cache *Cache) Option {
	return func(r *Resolver) { r.cache = cache }
}

func NewResolver(opts ...Option) (*Resolver, error) {
	r := &Resolver{config: DefaultConfig()}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.config.Validate(); err != nil {
		return nil, err
	}
	r.config = r.config.withDefaults()
	if r.registry == nil {
		r.registry = NewRegistry()
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.cache == nil {
		cache, err := NewCache(r.config.CacheSize)
		if err != nil {
			return nil, err
		}
		r.cache = cache
	}
	return r, nil
}

func (r *Resolver) Registry() *Registry { return r.registry }
func (r *Resolver) Cache() *Cache       { return r.cache }
func (r *Resolver) Config() Config      { return r.config }

// Resolve returns the type declared by p instantiated with the generic
// arguments args.
func (r *Resolver) Resolve(ctx context.Context, p *bytecode.Program, args ...deepkit.Type) (deepkit.Type, error) {
	key := cacheKey(p, args)
	if typ, ok := r.cache.lookup(key); ok {
		r.logger.Debug("Cache hit", zap.String("program", p.Name))
		return typ, nil
	}
	return r.cache.do(key, func() (deepkit.Type, error) {
		s := r.newSession(ctx)
		typ, err := s.resolve(p, args)
		if err != nil {
			r.logger.Debug("Resolution failed", zap.String("program", p.Name), zap.Error(err))
			return nil, err
		}
		r.cache.publish(s.results)
		if published, ok := r.cache.peek(key); ok {
			typ = published
		}
		r.logger.Debug("Resolved",
			zap.String("program", p.Name),
			zap.Int("entries", len(s.results)),
			zap.Int("steps", s.steps))
		return typ, nil
	})
}

// ResolveClass resolves the program registered for class c.  Built-in
// classes resolve to their member-less class type.
func (r *Resolver) ResolveClass(ctx context.Context, c *deepkit.Class, args ...deepkit.Type) (deepkit.Type, error) {
	if deepkit.IsBuiltinClass(c) {
		return deepkit.NewBuiltin(c, args...), nil
	}
	p, ok := r.registry.Program(c)
	if !ok {
		return nil, &UnresolvedTypeError{Name: c.Name, Msg: "no program registered for class"}
	}
	return r.Resolve(ctx, p, args...)
}

// ResolveGoType resolves the class bound to Go type t.
func (r *Resolver) ResolveGoType(ctx context.Context, t reflect.Type, args ...deepkit.Type) (deepkit.Type, error) {
	c, ok := r.registry.ClassOf(t)
	if !ok {
		return nil, &UnresolvedTypeError{Name: t.String(), Msg: "no class bound to Go type"}
	}
	return r.ResolveClass(ctx, c, args...)
}

// ResolveAll resolves programs concurrently.  The result at index k is
// the type of programs[k].  The first error cancels the remaining
// resolutions.
func (r *Resolver) ResolveAll(ctx context.Context, programs []*bytecode.Program) ([]deepkit.Type, error) {
	types := make([]deepkit.Type, len(programs))
	g, ctx := errgroup.WithContext(ctx)
	for k, p := range programs {
		g.Go(func() error {
			typ, err := r.Resolve(ctx, p)
			if err != nil {
				return fmt.Errorf("%s: %w", p.Name, err)
			}
			types[k] = typ
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return types, nil
}

// Infer returns the type of the Go value v.  Values of Go types bound to
// a class resolve to that class's declared type.
func (r *Resolver) Infer(ctx context.Context, v any) (deepkit.Type, error) {
	s := r.newSession(ctx)
	typ, err := s.inferValue(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	r.cache.publish(s.results)
	return typ, nil
}

// session is the state of one outermost resolution.
type session struct {
	*Resolver
	ctx context.Context
	// pending holds the class types under construction so a class that
	// refers to itself resolves to the same node.
	pending map[string]*deepkit.TypeClass
	results map[string]deepkit.Type
	depth   int
	steps   int
	// visiting holds the pointers, maps, and slices on the current value
	// inference path.
	visiting   map[visit]struct{}
	valueDepth int
}

func (r *Resolver) newSession(ctx context.Context) *session {
	return &session{
		Resolver: r,
		ctx:      ctx,
		pending:  make(map[string]*deepkit.TypeClass),
		results:  make(map[string]deepkit.Type),
	}
}

func (s *session) resolve(p *bytecode.Program, args []deepkit.Type) (deepkit.Type, error) {
	key := cacheKey(p, args)
	if typ, ok := s.results[key]; ok {
		return typ, nil
	}
	if typ, ok := s.pending[key]; ok {
		return typ, nil
	}
	if typ, ok := s.cache.peek(key); ok {
		return typ, nil
	}
	if s.depth >= s.config.MaxDepth {
		return nil, &RecursionLimitError{Program: p.Name, Limit: s.config.MaxDepth}
	}
	if err := bytecode.Validate(p); err != nil {
		return nil, fromValidateError(p, err)
	}
	var self *deepkit.TypeClass
	if p.Class != nil {
		self = &deepkit.TypeClass{Class: p.Class}
		if len(args) > 0 {
			self.Arguments = args
		}
		s.pending[key] = self
		defer delete(s.pending, key)
	}
	s.depth++
	m := newMachine(s, p, args, self)
	typ, err := m.exec()
	s.depth--
	if err != nil {
		return nil, err
	}
	s.results[key] = typ
	return typ, nil
}

func (s *session) resolveClass(c *deepkit.Class, args []deepkit.Type) (deepkit.Type, error) {
	if deepkit.IsBuiltinClass(c) {
		return deepkit.NewBuiltin(c, args...), nil
	}
	p, ok := s.registry.Program(c)
	if !ok {
		return nil, &UnresolvedTypeError{Name: c.Name, Msg: "no program registered for class"}
	}
	return s.resolve(p, args)
}

// ResolveDecl registers module m and resolves its declaration name, or its
// first declaration if name is empty.  Each of argNames names another
// declaration of m whose type is passed as a generic argument.
func (r *Resolver) ResolveDecl(ctx context.Context, m *bytecode.Module, name string, argNames ...string) (deepkit.Type, error) {
	if len(m.Programs) == 0 {
		return nil, errors.New("module declares nothing")
	}
	if err := r.registry.RegisterModule(m); err != nil {
		return nil, err
	}
	main := m.Programs[0]
	if name != "" {
		if main = m.Lookup(name); main == nil {
			return nil, fmt.Errorf("no declaration named %q", name)
		}
	}
	var args []deepkit.Type
	for _, argName := range argNames {
		p := m.Lookup(argName)
		if p == nil {
			return nil, fmt.Errorf("no declaration named %q", argName)
		}
		arg, err := r.Resolve(ctx, p)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return r.Resolve(ctx, main, args...)
}
