package orchestrator

import "errors"

var (
	ErrNotMonotonic = errors.New("next version does not follow the current version")
	ErrTagExists    = errors.New("tag already exists")
)
