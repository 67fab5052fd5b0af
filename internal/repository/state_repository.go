package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ejfitzgerald/accoutrements/internal/domain"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// StateSchemaVersion is written into every release state file.
	StateSchemaVersion = "2.0.0"

	StateFilePermissions = 0o600
	StateDirPermissions  = 0o700
	LockTimeout          = 30 * time.Second
	LockRetryInterval    = 100 * time.Millisecond

	stateFilePrefix = "release-"
	stateFileSuffix = ".json"
	latestFileName  = "latest"
)

// ErrStateNotFound is returned when no release state exists for a session.
var ErrStateNotFound = errors.New("release state not found")

// StateRepository persists release saga state so an interrupted release can
// be rolled back from a later invocation.
type StateRepository interface {
	Save(ctx context.Context, state *domain.RollbackState) error
	Load(ctx context.Context, sessionID string) (*domain.RollbackState, error)
	LoadLatest(ctx context.Context) (*domain.RollbackState, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, sessionID string) error
	Exists(ctx context.Context, sessionID string) (bool, error)
}

type stateEnvelope struct {
	Schema   string                `json:"schema"`
	Checksum string                `json:"checksum"`
	SavedAt  time.Time             `json:"saved_at"`
	State    *domain.RollbackState `json:"state"`
}

// JSONStateRepository stores one JSON document per release session and
// guards each one with an flock(2) lock file next to it. Lock files need a
// real filesystem, so fs should be OS backed whenever locking matters.
type JSONStateRepository struct {
	fs       afero.Fs
	stateDir string
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewJSONStateRepository creates a state repository rooted at stateDir.
func NewJSONStateRepository(fs afero.Fs, stateDir string, logger *zap.Logger) *JSONStateRepository {
	if stateDir == "" {
		stateDir = ".release-state"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONStateRepository{fs: fs, stateDir: stateDir, logger: logger}
}

// Save writes state atomically under an exclusive lock.
func (r *JSONStateRepository) Save(ctx context.Context, state *domain.RollbackState) error {
	if state == nil || state.SessionID == "" {
		return fmt.Errorf("cannot save release state without a session id")
	}
	if err := r.fs.MkdirAll(r.stateDir, StateDirPermissions); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	unlock, err := r.lock(ctx, state.SessionID, false)
	if err != nil {
		return err
	}
	defer unlock()

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal release state: %w", err)
	}
	data, err := json.MarshalIndent(stateEnvelope{
		Schema:   StateSchemaVersion,
		Checksum: checksum(raw),
		SavedAt:  time.Now().UTC(),
		State:    state,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state envelope: %w", err)
	}
	filename := r.stateFile(state.SessionID)
	if err := r.writeAtomic(filename, data); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writeAtomic(r.latestFile(), []byte(state.SessionID)); err != nil {
		return fmt.Errorf("failed to record latest session: %w", err)
	}
	r.logger.Debug("saved release state", zap.String("session", state.SessionID), zap.String("status", string(state.Status)))
	return nil
}

// Load reads and verifies the state for sessionID under a shared lock.
func (r *JSONStateRepository) Load(ctx context.Context, sessionID string) (*domain.RollbackState, error) {
	unlock, err := r.lock(ctx, sessionID, true)
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := afero.ReadFile(r.fs, r.stateFile(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: session %s", ErrStateNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	var env stateEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode state file: %w", err)
	}
	if env.Schema != StateSchemaVersion {
		return nil, fmt.Errorf("incompatible state schema: expected %s, got %s", StateSchemaVersion, env.Schema)
	}
	raw, err := json.Marshal(env.State)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state for verification: %w", err)
	}
	if env.Checksum != checksum(raw) {
		return nil, fmt.Errorf("state checksum mismatch for session %s", sessionID)
	}
	return env.State, nil
}

// LoadLatest loads the most recently saved session.
func (r *JSONStateRepository) LoadLatest(ctx context.Context) (*domain.RollbackState, error) {
	r.mu.RLock()
	data, err := afero.ReadFile(r.fs, r.latestFile())
	r.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to read latest session: %w", err)
	}
	sessionID := strings.TrimSpace(string(data))
	if sessionID == "" {
		return nil, ErrStateNotFound
	}
	return r.Load(ctx, sessionID)
}

// List returns the session ids with a state file, sorted.
func (r *JSONStateRepository) List(_ context.Context) ([]string, error) {
	entries, err := afero.ReadDir(r.fs, r.stateDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list state directory: %w", err)
	}
	var sessions []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, stateFilePrefix) || !strings.HasSuffix(name, stateFileSuffix) {
			continue
		}
		sessions = append(sessions, strings.TrimSuffix(strings.TrimPrefix(name, stateFilePrefix), stateFileSuffix))
	}
	sort.Strings(sessions)
	return sessions, nil
}

// Delete removes the state and lock files for sessionID.
func (r *JSONStateRepository) Delete(ctx context.Context, sessionID string) error {
	unlock, err := r.lock(ctx, sessionID, false)
	if err != nil {
		return err
	}
	if err := r.fs.Remove(r.stateFile(sessionID)); err != nil && !os.IsNotExist(err) {
		unlock()
		return fmt.Errorf("failed to delete state file: %w", err)
	}
	unlock()
	if err := r.fs.Remove(r.lockFile(sessionID)); err != nil && !os.IsNotExist(err) {
		r.logger.Warn("failed to remove lock file", zap.String("session", sessionID), zap.Error(err))
	}
	return nil
}

// Exists reports whether a state file exists for sessionID.
func (r *JSONStateRepository) Exists(_ context.Context, sessionID string) (bool, error) {
	_, err := r.fs.Stat(r.stateFile(sessionID))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check state file: %w", err)
}

// lock polls for the session lock until it is acquired or LockTimeout
// elapses, and returns the matching release function.
func (r *JSONStateRepository) lock(ctx context.Context, sessionID string, shared bool) (func(), error) {
	if err := r.fs.MkdirAll(r.stateDir, StateDirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	fl := flock.New(r.lockFile(sessionID))
	try := fl.TryLock
	if shared {
		try = fl.TryRLock
	}
	ctx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	ticker := time.NewTicker(LockRetryInterval)
	defer ticker.Stop()
	for {
		locked, err := try()
		if err != nil {
			return nil, fmt.Errorf("failed to lock session %s: %w", sessionID, err)
		}
		if locked {
			return func() {
				if err := fl.Unlock(); err != nil {
					r.logger.Warn("failed to unlock state", zap.String("session", sessionID), zap.Error(err))
				}
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("could not lock session %s: %w", sessionID, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (r *JSONStateRepository) writeAtomic(filename string, data []byte) error {
	tmp := filename + ".tmp"
	if err := afero.WriteFile(r.fs, tmp, data, StateFilePermissions); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := r.fs.Rename(tmp, filename); err != nil {
		if removeErr := r.fs.Remove(tmp); removeErr != nil {
			r.logger.Warn("failed to remove temp file", zap.String("file", tmp), zap.Error(removeErr))
		}
		return fmt.Errorf("failed to rename %s: %w", tmp, err)
	}
	return nil
}

func (r *JSONStateRepository) stateFile(sessionID string) string {
	return filepath.Join(r.stateDir, stateFilePrefix+sessionID+stateFileSuffix)
}

func (r *JSONStateRepository) lockFile(sessionID string) string {
	return filepath.Join(r.stateDir, "."+sessionID+".lock")
}

func (r *JSONStateRepository) latestFile() string {
	return filepath.Join(r.stateDir, latestFileName)
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
