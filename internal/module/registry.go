package module

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"ember/internal/emberr"
	"ember/internal/value"
	"ember/internal/vmctx"
)

// Registry resolves and compiles named modules referenced by `import`
// statements (spec §4.5 step 1, §5), deduplicating concurrent loads of the
// same name from an embedding host via singleflight — the compiler itself
// stays single-threaded per spec §5's "at most one parser/compiler chain is
// active per VM"; singleflight only protects the registry's own map from a
// duplicate concurrent compile, a concern the original single-threaded
// program never faced.
//
// Module name resolution is a flat namespace (spec §14's Open Question
// decision: "multi-file module resolution beyond a flat namespace" is a
// named non-goal): a name resolves to, in order, the literal path, path+
// ".ember", or path+"/index.ember", searched across SearchPaths.
type Registry struct {
	Ctx         *vmctx.Context
	SearchPaths []string

	mu      sync.RWMutex
	modules map[string]*value.Module
	group   singleflight.Group
}

// NewRegistry creates an empty registry rooted at ctx, searching the given
// directories (only the current directory if none given).
func NewRegistry(ctx *vmctx.Context, searchPaths ...string) *Registry {
	if len(searchPaths) == 0 {
		searchPaths = []string{"."}
	}
	return &Registry{
		Ctx:         ctx,
		SearchPaths: searchPaths,
		modules:     make(map[string]*value.Module),
	}
}

// Load returns the compiled module named name, compiling it on first
// request and caching the result for subsequent imports of the same name —
// and collapsing concurrent first requests for the same name into a single
// compile.
func (r *Registry) Load(name string) (*value.Module, error) {
	r.mu.RLock()
	m, ok := r.modules[name]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		// Held across resolve and compile, not just the map access: loads of
		// different names would otherwise compile concurrently against the
		// shared Ctx, which carries one active parser chain at a time.
		r.mu.Lock()
		defer r.mu.Unlock()
		if m, ok := r.modules[name]; ok {
			return m, nil
		}

		path, err := r.resolve(name)
		if err != nil {
			return nil, err
		}
		source, err := os.ReadFile(path)
		if err != nil {
			return nil, emberr.New(emberr.SemanticError, "could not import module \""+name+"\"", name, 0, 0).
				Wrap(err, "reading "+path)
		}

		modName := value.NewString(r.Ctx, r.Ctx.StringClass, []byte(name))
		mod := value.NewModule(r.Ctx, r.Ctx.ModuleClass, modName)

		if _, err := Compile(r.Ctx, mod, path, source); err != nil {
			return nil, emberr.New(emberr.SemanticError, "failed to compile imported module \""+name+"\"", path, 0, 0).
				Wrap(err, "compiling "+path)
		}

		r.modules[name] = mod
		return mod, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*value.Module), nil
}

// resolve finds name's source file across SearchPaths, trying the literal
// path, then name+".ember", then name+"/index.ember" in each directory in
// turn (spec §14, modeled on the teacher's findModule direct-file/`.sn`/
// `index.sn` search order).
func (r *Registry) resolve(name string) (string, error) {
	candidates := []string{name, name + ".ember", filepath.Join(name, "index.ember")}
	for _, dir := range r.SearchPaths {
		for _, c := range candidates {
			p := filepath.Join(dir, c)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("module %q not found in search paths %v", name, r.SearchPaths)
}
