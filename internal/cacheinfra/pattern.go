package cacheinfra

import (
	"sync"

	"github.com/gobwas/glob"
)

// patterns memoizes compiled globs; callers invalidate with a handful of fixed patterns.
var patterns sync.Map // map[string]glob.Glob

// compilePattern compiles a redis style glob ("list:*", "record:?a*").
// ':' is not treated as a separator, so "*" spans the whole key.
func compilePattern(pattern string) (glob.Glob, error) {
	if g, ok := patterns.Load(pattern); ok {
		return g.(glob.Glob), nil
	}

	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, &ConfigError{Field: "pattern", Message: err.Error()}
	}
	patterns.Store(pattern, g)
	return g, nil
}
