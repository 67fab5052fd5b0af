package usecase

import (
	"fmt"

	"github.com/gobwas/glob"
)

// BranchFilter matches branch names against protected glob patterns such as
// "release/*". '/' is a separator, so "release/*" does not match
// "release/1.0/hotfix".
type BranchFilter struct {
	patterns []glob.Glob
}

// NewBranchFilter compiles patterns.
func NewBranchFilter(patterns []string) (*BranchFilter, error) {
	f := &BranchFilter{patterns: make([]glob.Glob, 0, len(patterns))}
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid protected branch pattern %q: %w", p, err)
		}
		f.patterns = append(f.patterns, g)
	}
	return f, nil
}

// Protected reports whether name matches any pattern.
func (f *BranchFilter) Protected(name string) bool {
	if f == nil {
		return false
	}
	for _, g := range f.patterns {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Split partitions names into deletable and protected, preserving order.
func (f *BranchFilter) Split(names []string) (allowed, protected []string) {
	for _, name := range names {
		if f.Protected(name) {
			protected = append(protected, name)
			continue
		}
		allowed = append(allowed, name)
	}
	return allowed, protected
}
