package patch

import (
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheSize bounds the compiled pattern cache. One link run compiles a few
// dozen patterns per module.
const cacheSize = 256

var compiled = mustNewCache()

func mustNewCache() *lru.Cache[string, *regexp.Regexp] {
	c, err := lru.New[string, *regexp.Regexp](cacheSize)
	if err != nil {
		panic(err)
	}
	return c
}

// Compile compiles expr, reusing a previously compiled pattern when available.
func Compile(expr string) (*regexp.Regexp, error) {
	if re, ok := compiled.Get(expr); ok {
		return re, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	compiled.Add(expr, re)
	return re, nil
}

// MustCompile is like Compile but panics on an invalid expression.
// Use it only for expressions built from quoted literals or constants.
func MustCompile(expr string) *regexp.Regexp {
	re, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return re
}
