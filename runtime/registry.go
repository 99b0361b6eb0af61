package runtime

import (
	"fmt"
	"reflect"
	"sync"

	deepkit "github.com/wilcoxmd/deepkit-framework"
	"github.com/wilcoxmd/deepkit-framework/bytecode"
)

// Registry binds class identities to the programs that declare them and
// Go types to classes.  It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	programs map[*deepkit.Class]*bytecode.Program
	goTypes  map[reflect.Type]*deepkit.Class
}

func NewRegistry() *Registry {
	return &Registry{
		programs: make(map[*deepkit.Class]*bytecode.Program),
		goTypes:  make(map[reflect.Type]*deepkit.Class),
	}
}

// Register binds p to its class and, if the class has a Go type, the Go
// type to the class.
func (r *Registry) Register(p *bytecode.Program) error {
	if p.Class == nil {
		return fmt.Errorf("program %q declares no class", p.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.programs[p.Class]; ok && q != p {
		return fmt.Errorf("class %s already registered by program %q", p.Class, q.Name)
	}
	r.programs[p.Class] = p
	if p.Class.GoType != nil {
		r.goTypes[p.Class.GoType] = p.Class
	}
	return nil
}

// RegisterModule registers every class program of m.
func (r *Registry) RegisterModule(m *bytecode.Module) error {
	for _, p := range m.Programs {
		if p.Class == nil {
			continue
		}
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// Bind ties Go type t to class c so values of type t are described by c.
func (r *Registry) Bind(t reflect.Type, c *deepkit.Class) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goTypes[t] = c
}

func (r *Registry) Program(c *deepkit.Class) (*bytecode.Program, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.programs[c]
	return p, ok
}

func (r *Registry) ClassOf(t reflect.Type) (*deepkit.Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.goTypes[t]
	return c, ok
}
