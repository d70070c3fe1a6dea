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
	"strings"
	"time"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const (
	// JournalSchemaVersion is written into every journal file.
	JournalSchemaVersion   = "1.0.0"
	JournalFilePermissions = 0o600
	JournalDirPermissions  = 0o700

	// LockTimeout bounds how long a journal operation waits for the lock.
	LockTimeout       = 30 * time.Second
	LockRetryInterval = 100 * time.Millisecond
)

var (
	// ErrJournalNotFound is returned when no journal exists for the request.
	ErrJournalNotFound = errors.New("run journal not found")
	// ErrInvalidSessionID rejects session ids that are not UUIDs.
	ErrInvalidSessionID = errors.New("invalid session id")
)

// JournalRepository persists release run journals.
type JournalRepository interface {
	Save(ctx context.Context, journal *domain.RunJournal) error
	Load(ctx context.Context, sessionID string) (*domain.RunJournal, error)
	LoadLatest(ctx context.Context) (*domain.RunJournal, error)
}

type journalMetadata struct {
	SchemaVersion string    `json:"schema_version"`
	Checksum      string    `json:"checksum"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type journalFile struct {
	Metadata journalMetadata    `json:"metadata"`
	Journal  *domain.RunJournal `json:"journal"`
}

type fileJournalRepository struct {
	fs       afero.Fs
	stateDir string
}

// NewJournalRepository stores journals as run-<id>.json under stateDir.
// stateDir must be a real directory path: writers serialise on a flock
// file inside it.
func NewJournalRepository(fs afero.Fs, stateDir string) JournalRepository {
	return &fileJournalRepository{fs: fs, stateDir: stateDir}
}

func (r *fileJournalRepository) Save(ctx context.Context, journal *domain.RunJournal) error {
	if journal == nil {
		return fmt.Errorf("journal cannot be nil")
	}
	if err := validateSessionID(journal.SessionID); err != nil {
		return err
	}
	if err := r.ensureStateDir(); err != nil {
		return err
	}
	unlock, err := r.lock(ctx, false)
	if err != nil {
		return err
	}
	defer unlock()
	payload, err := json.Marshal(journal)
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}
	data, err := json.MarshalIndent(journalFile{
		Metadata: journalMetadata{
			SchemaVersion: JournalSchemaVersion,
			Checksum:      checksum(payload),
			CreatedAt:     journal.StartedAt,
			UpdatedAt:     time.Now(),
		},
		Journal: journal,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal file: %w", err)
	}
	filename := r.journalPath(journal.SessionID)
	if err := r.writeAtomic(filename, data); err != nil {
		return err
	}
	if err := r.writeAtomic(r.latestPath(), []byte(filepath.Base(filename))); err != nil {
		return fmt.Errorf("failed to update latest pointer: %w", err)
	}
	return nil
}

func (r *fileJournalRepository) Load(ctx context.Context, sessionID string) (*domain.RunJournal, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	unlock, err := r.lock(ctx, true)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: session %s", ErrJournalNotFound, sessionID)
		}
		return nil, err
	}
	defer unlock()
	return r.read(sessionID)
}

func (r *fileJournalRepository) LoadLatest(ctx context.Context) (*domain.RunJournal, error) {
	unlock, err := r.lock(ctx, true)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrJournalNotFound
		}
		return nil, err
	}
	defer unlock()
	data, err := afero.ReadFile(r.fs, r.latestPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrJournalNotFound
		}
		return nil, fmt.Errorf("failed to read latest pointer: %w", err)
	}
	sessionID, ok := sessionFromFilename(strings.TrimSpace(string(data)))
	if !ok {
		return nil, fmt.Errorf("invalid latest pointer: %q", string(data))
	}
	return r.read(sessionID)
}

func (r *fileJournalRepository) read(sessionID string) (*domain.RunJournal, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(r.fs, r.journalPath(sessionID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: session %s", ErrJournalNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	var file journalFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode journal: %w", err)
	}
	if file.Metadata.SchemaVersion != JournalSchemaVersion {
		return nil, fmt.Errorf("incompatible schema version: expected %s, got %s",
			JournalSchemaVersion, file.Metadata.SchemaVersion)
	}
	if file.Journal == nil {
		return nil, fmt.Errorf("journal %s is empty", sessionID)
	}
	payload, err := json.Marshal(file.Journal)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal journal for checksum: %w", err)
	}
	if checksum(payload) != file.Metadata.Checksum {
		return nil, fmt.Errorf("journal %s failed checksum validation", sessionID)
	}
	return file.Journal, nil
}

// ensureStateDir creates the state directory with a .gitignore so journals
// never show up as untracked files of the repository.
func (r *fileJournalRepository) ensureStateDir() error {
	if err := r.fs.MkdirAll(r.stateDir, JournalDirPermissions); err != nil {
		return fmt.Errorf("failed to ensure state directory: %w", err)
	}
	ignore := filepath.Join(r.stateDir, ".gitignore")
	exists, err := afero.Exists(r.fs, ignore)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", ignore, err)
	}
	if exists {
		return nil
	}
	if err := afero.WriteFile(r.fs, ignore, []byte("*\n"), JournalFilePermissions); err != nil {
		return fmt.Errorf("failed to write %s: %w", ignore, err)
	}
	return nil
}

func (r *fileJournalRepository) writeAtomic(filename string, data []byte) error {
	tmp := filename + ".tmp"
	if err := afero.WriteFile(r.fs, tmp, data, JournalFilePermissions); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := r.fs.Rename(tmp, filename); err != nil {
		_ = r.fs.Remove(tmp)
		return fmt.Errorf("failed to rename %s: %w", tmp, err)
	}
	return nil
}

// lock takes the directory-wide journal lock. A missing state directory on a
// read yields os.ErrNotExist.
func (r *fileJournalRepository) lock(ctx context.Context, shared bool) (func(), error) {
	if shared {
		if _, err := os.Stat(r.stateDir); err != nil {
			return nil, err
		}
	}
	lock := flock.New(filepath.Join(r.stateDir, ".journal.lock"))
	lockCtx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	var (
		locked bool
		err    error
	)
	if shared {
		locked, err = lock.TryRLockContext(lockCtx, LockRetryInterval)
	} else {
		locked, err = lock.TryLockContext(lockCtx, LockRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acquire journal lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire journal lock within %s", LockTimeout)
	}
	return func() { _ = lock.Unlock() }, nil
}

func (r *fileJournalRepository) journalPath(sessionID string) string {
	return filepath.Join(r.stateDir, "run-"+sessionID+".json")
}

func (r *fileJournalRepository) latestPath() string {
	return filepath.Join(r.stateDir, "latest.txt")
}

func sessionFromFilename(name string) (string, bool) {
	id, ok := strings.CutPrefix(filepath.Base(name), "run-")
	if !ok {
		return "", false
	}
	id, ok = strings.CutSuffix(id, ".json")
	return id, ok && id != ""
}

// validateSessionID keeps ids from naming paths outside the state directory.
func validateSessionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	return nil
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
