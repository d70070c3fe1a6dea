package usecase

import (
	"context"

	"github.com/compozy/releasehelper/internal/domain"
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

func stringsArg(args mock.Arguments, i int) []string {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).([]string)
}

func mustVersion(s string) *domain.Version {
	v, err := domain.ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}
