package server

import (
	"context"
	"sync"

	"coachhub/internal/models"
	"coachhub/internal/notify"
	"coachhub/internal/repository"

	"github.com/stretchr/testify/mock"
)

type mockReportRepo struct {
	mock.Mock
}

func (m *mockReportRepo) Create(ctx context.Context, report *models.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *mockReportRepo) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*models.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReportRepo) List(ctx context.Context, filter repository.ReportFilter) ([]*models.Report, int64, error) {
	args := m.Called(ctx, filter)
	var reports []*models.Report
	if r := args.Get(0); r != nil {
		reports = r.([]*models.Report)
	}
	return reports, args.Get(1).(int64), args.Error(2)
}

func (m *mockReportRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockReportRepo) UpdatePriority(ctx context.Context, id uint, priority string) error {
	args := m.Called(ctx, id, priority)
	return args.Error(0)
}

func (m *mockReportRepo) Stats(ctx context.Context) (*models.ReportStats, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.(*models.ReportStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReportRepo) ToggleVote(ctx context.Context, userID, reportID uint) (bool, error) {
	args := m.Called(ctx, userID, reportID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReportRepo) CountVotes(ctx context.Context, reportID uint) (int64, error) {
	args := m.Called(ctx, reportID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReportRepo) HasVoted(ctx context.Context, userID, reportID uint) (bool, error) {
	args := m.Called(ctx, userID, reportID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReportRepo) CountVotesByReportIDs(ctx context.Context, reportIDs []uint) (map[uint]int, error) {
	args := m.Called(ctx, reportIDs)
	if r := args.Get(0); r != nil {
		return r.(map[uint]int), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReportRepo) CountCommentsByReportIDs(ctx context.Context, reportIDs []uint) (map[uint]int, error) {
	args := m.Called(ctx, reportIDs)
	if r := args.Get(0); r != nil {
		return r.(map[uint]int), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReportRepo) VotedReportIDs(ctx context.Context, userID uint, reportIDs []uint) ([]uint, error) {
	args := m.Called(ctx, userID, reportIDs)
	if r := args.Get(0); r != nil {
		return r.([]uint), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if r := args.Get(0); r != nil {
		return r.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetRole(ctx context.Context, id uint) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *mockUserRepo) CreateProfile(ctx context.Context, userID uint, role, firstName, lastName string) error {
	args := m.Called(ctx, userID, role, firstName, lastName)
	return args.Error(0)
}

type mockCommentRepo struct {
	mock.Mock
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockCommentRepo) ListByReport(ctx context.Context, reportID uint) ([]*models.Comment, error) {
	args := m.Called(ctx, reportID)
	if r := args.Get(0); r != nil {
		return r.([]*models.Comment), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAttachmentRepo struct {
	mock.Mock
}

func (m *mockAttachmentRepo) CreateBatch(ctx context.Context, attachments []*models.Attachment) error {
	args := m.Called(ctx, attachments)
	return args.Error(0)
}

func (m *mockAttachmentRepo) ListByReport(ctx context.Context, reportID uint) ([]*models.Attachment, error) {
	args := m.Called(ctx, reportID)
	if r := args.Get(0); r != nil {
		return r.([]*models.Attachment), args.Error(1)
	}
	return nil, args.Error(1)
}

type stubAllocator struct {
	mu   sync.Mutex
	next map[string]int64
}

func newStubAllocator() *stubAllocator {
	return &stubAllocator{next: map[string]int64{}}
}

func (a *stubAllocator) NextReportNumber(_ context.Context, reportType string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next[reportType]++
	prefix := "FEAT"
	if reportType == models.ReportTypeBug {
		prefix = "BUG"
	}
	return prefix + "-" + pad4(a.next[reportType]), nil
}

func pad4(n int64) string {
	s := []byte{'0', '0', '0', '0'}
	for i := 3; i >= 0 && n > 0; i-- {
		s[i] = byte('0' + n%10)
		n /= 10
	}
	return string(s)
}

type stubDirectory struct {
	names map[uint]string
}

func (d *stubDirectory) ResolveDisplayName(_ context.Context, userID uint, _ []string) (string, error) {
	return d.names[userID], nil
}

// recordingNotifier captures events synchronously for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Notify(event notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []notify.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notify.Event, len(n.events))
	copy(out, n.events)
	return out
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (s *memStore) Put(_ context.Context, key string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = content
	return nil
}

func (s *memStore) PublicURL(key string) string {
	return "http://assets.test/media/" + key
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}
