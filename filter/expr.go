package filter

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/maypok86/otter/v2"
	"github.com/s0up4200/tvdbv4/tvdb"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = otter.Must(&otter.Options[string, CompiledFilter]{
				MaximumSize: size,
			})
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *otter.Cache[string, CompiledFilter]
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
		if cached, ok := c.cache.GetIfPresent(expression); ok {
			return cached, nil
		}
	}

	// Result fields are only known at run time
	program, err := expr.Compile(expression,
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(),
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
		helpers:    c.helperFuncs,
	}

	if c.cache != nil {
		c.cache.Set(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.InvalidateAll()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.EstimatedSize()
	}
	return 0
}

// Evaluate evaluates the filter against a search result. Results that fail
// to evaluate do not match.
func (f *exprFilter) Evaluate(result tvdb.SearchResult) bool {
	ok, err := f.Match(result)
	return err == nil && ok
}

// Match evaluates the filter and reports runtime failures
func (f *exprFilter) Match(result tvdb.SearchResult) (bool, error) {
	out, err := expr.Run(f.program, createRuntimeEnvironment(result, f.helpers))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			ResultName: result.Name,
			Reason:     "failed to run expression",
			Err:        err,
		}
	}

	// AsBool guarantees the type
	return out.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createHelperFunctions creates the static helper functions used during compilation
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)
	return funcs
}

// addHelperFunctions adds all helper functions to the provided map
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return time.Now().AddDate(-years, 0, 0)
	}
	env["parseDate"] = parseDate
	// Case-insensitive string helpers. The plain names are expr operators.
	env["icontains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["istartsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["iendsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["now"] = time.Now
}

func parseDate(dateStr string) time.Time {
	t, _ := time.Parse(time.DateOnly, dateStr)
	return t
}

// createRuntimeEnvironment creates the runtime environment for filter evaluation
func createRuntimeEnvironment(result tvdb.SearchResult, helpers map[string]any) map[string]any {
	env := make(map[string]any, len(helpers)+16)

	// Static and custom helpers
	maps.Copy(env, helpers)

	env["Result"] = result

	env["hasAlias"] = createHasAliasFunc(result.Name, result.Aliases)
	env["hasTranslation"] = func(lang string) bool {
		_, ok := result.Translations[lang]
		return ok
	}
	env["translated"] = func(lang string) string {
		return result.Translations[lang]
	}

	// Direct result properties for convenience
	env["ID"] = result.TVDBID
	env["Name"] = result.Name
	env["Slug"] = result.Slug
	env["Type"] = result.Type
	env["Year"] = result.Year
	env["Country"] = result.Country
	env["Network"] = result.Network
	env["Status"] = result.Status
	env["PrimaryLanguage"] = result.PrimaryLanguage
	env["Overview"] = result.Overview
	env["Aliases"] = result.Aliases
	env["FirstAired"] = parseDate(result.FirstAirTime)

	return env
}

// createHasAliasFunc matches the name itself or any alias, ignoring case
func createHasAliasFunc(name string, aliases []string) func(string) bool {
	lowered := make([]string, 0, len(aliases)+1)
	lowered = append(lowered, strings.ToLower(name))
	for _, alias := range aliases {
		lowered = append(lowered, strings.ToLower(alias))
	}
	return func(alias string) bool {
		return slices.Contains(lowered, strings.ToLower(alias))
	}
}
