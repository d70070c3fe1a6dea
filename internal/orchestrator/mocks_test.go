package orchestrator

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/compozy/releasehelper/internal/repository"
	"github.com/compozy/releasehelper/internal/ui"
	"github.com/stretchr/testify/mock"
)

type mockGitRepository struct {
	mock.Mock
}

func (m *mockGitRepository) Root() string {
	args := m.Called()
	return args.String(0)
}

func (m *mockGitRepository) CurrentBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) TrackingBranch(ctx context.Context, branch string) (string, error) {
	args := m.Called(ctx, branch)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) WorkingTreeStatus(ctx context.Context) ([]string, []string, error) {
	args := m.Called(ctx)
	return stringsArg(args, 0), stringsArg(args, 1), args.Error(2)
}

func (m *mockGitRepository) Fetch(ctx context.Context, remote string) error {
	args := m.Called(ctx, remote)
	return args.Error(0)
}

func (m *mockGitRepository) ListTags(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return stringsArg(args, 0), args.Error(1)
}

func (m *mockGitRepository) TagExists(ctx context.Context, tag string) (bool, error) {
	args := m.Called(ctx, tag)
	return args.Bool(0), args.Error(1)
}

func (m *mockGitRepository) CommitsBetween(ctx context.Context, from, to string) ([]domain.Commit, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commit), args.Error(1)
}

func (m *mockGitRepository) HeadCommit(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) ResolveRef(ctx context.Context, ref string) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) DiffStat(ctx context.Context, from, to string) (string, error) {
	args := m.Called(ctx, from, to)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) StageAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockGitRepository) StagePaths(ctx context.Context, paths ...string) error {
	args := m.Called(ctx, paths)
	return args.Error(0)
}

func (m *mockGitRepository) Commit(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) CreateTag(ctx context.Context, tag, msg string) error {
	args := m.Called(ctx, tag, msg)
	return args.Error(0)
}

func (m *mockGitRepository) PushBranch(ctx context.Context, remote, branch string) error {
	args := m.Called(ctx, remote, branch)
	return args.Error(0)
}

func (m *mockGitRepository) PushTags(ctx context.Context, remote string) error {
	args := m.Called(ctx, remote)
	return args.Error(0)
}

type mockChangelogService struct {
	mock.Mock
}

func (m *mockChangelogService) Render(release domain.Release, diff string) string {
	args := m.Called(release, diff)
	return args.String(0)
}

func (m *mockChangelogService) Append(ctx context.Context, path, section string) error {
	args := m.Called(ctx, path, section)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) CreateRelease(ctx context.Context, tag, name, body string) (string, error) {
	args := m.Called(ctx, tag, name, body)
	return args.String(0), args.Error(1)
}

// memJournal keeps saved journals in memory.
type memJournal struct {
	mu     sync.Mutex
	saved  map[string]domain.RunJournal
	latest string
	saves  int
	err    error
}

func newMemJournal() *memJournal {
	return &memJournal{saved: make(map[string]domain.RunJournal)}
}

func (m *memJournal) Save(_ context.Context, journal *domain.RunJournal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.err != nil {
		return m.err
	}
	snapshot := *journal
	snapshot.Steps = append([]domain.StepRecord(nil), journal.Steps...)
	m.saved[journal.SessionID] = snapshot
	m.latest = journal.SessionID
	return nil
}

func (m *memJournal) Load(_ context.Context, sessionID string) (*domain.RunJournal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.saved[sessionID]
	if !ok {
		return nil, repository.ErrJournalNotFound
	}
	return &j, nil
}

func (m *memJournal) LoadLatest(ctx context.Context) (*domain.RunJournal, error) {
	if m.latest == "" {
		return nil, repository.ErrJournalNotFound
	}
	return m.Load(ctx, m.latest)
}

type harness struct {
	git       *mockGitRepository
	changelog *mockChangelogService
	journal   *memJournal
	out       *bytes.Buffer
	deps      Dependencies
}

var testNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

// newHarness scripts the operator's answers with input.
func newHarness(input string) *harness {
	ui.NoColor()
	h := &harness{
		git:       new(mockGitRepository),
		changelog: new(mockChangelogService),
		journal:   newMemJournal(),
		out:       new(bytes.Buffer),
	}
	h.deps = Dependencies{
		GitRepo:   h.git,
		Changelog: h.changelog,
		Publisher: repository.NewNoopPublisher("acme", "widgets"),
		Journal:   h.journal,
		Reporter:  ui.NewConsoleReporter(h.out, h.out),
		Prompter:  ui.NewIOPrompter(strings.NewReader(input), h.out, false),
		Now:       func() time.Time { return testNow },
	}
	return h
}

// expectInspect registers the calls of a status inspection on a branch
// without tracking branch. modified is returned once; later status calls
// report a clean tree.
func (h *harness) expectInspect(modified []string, tags []string) {
	h.git.On("Root").Return("/repo")
	h.git.On("CurrentBranch", mock.Anything).Return("main", nil)
	if len(modified) > 0 {
		h.git.On("WorkingTreeStatus", mock.Anything).Return(modified, []string(nil), nil).Once()
	}
	h.git.On("WorkingTreeStatus", mock.Anything).Return([]string(nil), []string(nil), nil)
	h.git.On("ListTags", mock.Anything).Return(tags, nil)
	h.git.On("TrackingBranch", mock.Anything, "main").Return("", domain.ErrNoTrackingBranch)
}

// noDeadlineBranch registers a CurrentBranch call that records whether the
// context it received carries a deadline.
func (h *harness) noDeadlineBranch(sawDeadline *bool) {
	h.git.On("CurrentBranch", mock.Anything).Run(func(args mock.Arguments) {
		if _, ok := args.Get(0).(context.Context).Deadline(); ok {
			*sawDeadline = true
		}
	}).Return("main", nil)
}

func stepTypes(records []domain.StepRecord) []domain.StepType {
	types := make([]domain.StepType, len(records))
	for i, r := range records {
		types[i] = r.Type
	}
	return types
}

func stringsArg(args mock.Arguments, i int) []string {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).([]string)
}
