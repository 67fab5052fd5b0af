package usecase

import (
	"errors"

	"go.uber.org/zap"
)

var (
	ErrNoUpstreamRemote = errors.New("unable to determine the upstream remote")
	ErrNoTrunkBranch    = errors.New("unable to detect the trunk branch")
	ErrWorkingCopyDirty = errors.New("working copy has changes, commit them before switching")
	ErrProtectedBranch  = errors.New("refusing to delete protected branch")
)

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
