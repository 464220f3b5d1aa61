package service

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

type mockAllocator struct {
	mock.Mock
}

func (m *mockAllocator) NextReportNumber(ctx context.Context, reportType string) (string, error) {
	args := m.Called(ctx, reportType)
	return args.String(0), args.Error(1)
}

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) ResolveDisplayName(ctx context.Context, userID uint, order []string) (string, error) {
	args := m.Called(ctx, userID, order)
	return args.String(0), args.Error(1)
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

// mockStore is an in-memory object store tracking puts and deletes.
type mockStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  map[int]error // fail the nth Put (0-based)
	puts    int
}

func newMockStore() *mockStore {
	return &mockStore{objects: map[string][]byte{}, putErr: map[int]error{}}
}

func (s *mockStore) Put(_ context.Context, key string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.putErr[s.puts]; ok {
		s.puts++
		return err
	}
	s.puts++
	s.objects[key] = content
	return nil
}

func (s *mockStore) PublicURL(key string) string {
	return "http://assets.test/media/" + key
}

func (s *mockStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *mockStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
