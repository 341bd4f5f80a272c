package filter

import (
	"context"

	"github.com/s0up4200/tvdbv4/tvdb"
)

// Filter defines the basic interface for search result filters
type Filter interface {
	// Evaluate checks if a search result matches the filter criteria
	Evaluate(result tvdb.SearchResult) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Match is Evaluate with the runtime error reported
	Match(result tvdb.SearchResult) (bool, error)

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the approximate number of cached filters
	Size() int
}

// Evaluator evaluates filters against search results
type Evaluator interface {
	// Evaluate returns the results matching filter, in their original order
	Evaluate(ctx context.Context, filter CompiledFilter, results []tvdb.SearchResult) ([]tvdb.SearchResult, error)
}
