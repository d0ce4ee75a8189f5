package filter

import (
	"maps"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/s0up4200/marquee/catalog"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	extra      map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size <= 0 {
			return
		}
		cache, err := lru.New[string, CompiledFilter](size)
		if err == nil {
			c.cache = cache
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.customFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		customFuncs: make(map[string]any),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	customFuncs map[string]any
	cache       *lru.Cache[string, CompiledFilter]
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// The zero item gives the checker the type of every field and helper.
	env := createEnvironment(catalog.CatalogItem{})
	maps.Copy(env, c.customFuncs)

	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		extra:      c.customFuncs,
	}

	if c.cache != nil {
		c.cache.Add(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Evaluate evaluates the filter against an item.
// A runtime error counts as a non-match.
func (f *exprFilter) Evaluate(item catalog.CatalogItem) bool {
	env := createEnvironment(item)
	maps.Copy(env, f.extra)

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false
	}

	return result.(bool)
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createEnvironment exposes the item's fields and helper functions to expressions
func createEnvironment(item catalog.CatalogItem) map[string]any {
	env := make(map[string]any, 24)

	genres := make([]string, len(item.Genres))
	for i, g := range item.Genres {
		genres[i] = g.String()
	}

	env["ID"] = item.ID
	env["Title"] = item.Title
	env["Year"] = item.ReleaseYear
	env["Description"] = item.Description
	env["Runtime"] = item.RuntimeMinutes
	env["Rating"] = item.Rating
	env["Genres"] = genres
	env["Directors"] = item.Directors
	env["Writers"] = item.Writers
	env["Cast"] = item.Cast

	env["hasGenre"] = createHasGenreFunc(item)
	env["directedBy"] = createPersonFunc(item.Directors)
	env["writtenBy"] = createPersonFunc(item.Writers)
	env["stars"] = createPersonFunc(item.Cast)

	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper

	return env
}

func createHasGenreFunc(item catalog.CatalogItem) func(string) bool {
	return func(name string) bool {
		g, err := catalog.ParseGenre(name)
		if err != nil {
			return false
		}
		return item.HasGenre(g)
	}
}

func createPersonFunc(people []string) func(string) bool {
	lower := make([]string, len(people))
	for i, p := range people {
		lower[i] = strings.ToLower(p)
	}
	return func(name string) bool {
		return slices.Contains(lower, strings.ToLower(strings.TrimSpace(name)))
	}
}
