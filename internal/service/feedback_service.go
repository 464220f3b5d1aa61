// Package service contains the business logic orchestrating repositories,
// the sequence allocator, the user directory and the notifier.
package service

import (
	"context"
	"strings"
	"time"

	"coachhub/internal/middleware"
	"coachhub/internal/models"
	"coachhub/internal/notify"
	"coachhub/internal/repository"
)

// FeedbackService orchestrates the bug/feature report workflow.
type FeedbackService struct {
	reportRepo     repository.ReportRepository
	commentRepo    repository.CommentRepository
	attachmentRepo repository.AttachmentRepository
	allocator      repository.SequenceAllocator
	directory      repository.UserDirectory
	notifier       notify.Notifier
}

// NewFeedbackService wires the feedback workflow dependencies.
func NewFeedbackService(
	reportRepo repository.ReportRepository,
	commentRepo repository.CommentRepository,
	attachmentRepo repository.AttachmentRepository,
	allocator repository.SequenceAllocator,
	directory repository.UserDirectory,
	notifier notify.Notifier,
) *FeedbackService {
	return &FeedbackService{
		reportRepo:     reportRepo,
		commentRepo:    commentRepo,
		attachmentRepo: attachmentRepo,
		allocator:      allocator,
		directory:      directory,
		notifier:       notifier,
	}
}

// SubmitReportInput carries a new report submission.
type SubmitReportInput struct {
	UserID           uint
	Role             string
	Type             string
	Title            string
	Description      string
	StepsToReproduce string
	Priority         string
}

// SubmitReport validates the submission, allocates the report number,
// snapshots the submitter's display name and inserts the row. The outbound
// notification is fired after the insert and never affects the result.
func (s *FeedbackService) SubmitReport(ctx context.Context, in SubmitReportInput) (*models.Report, error) {
	if !models.ValidReportType(in.Type) {
		return nil, models.NewValidationError("Type must be 'bug' or 'feature'")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, models.NewValidationError("Description is required")
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, models.NewValidationError("Invalid priority")
	}

	// Allocation happens before any row is written: an allocator failure
	// aborts the submission with no partial state.
	number, err := s.allocator.NextReportNumber(ctx, in.Type)
	if err != nil {
		return nil, err
	}

	name, err := s.directory.ResolveDisplayName(ctx, in.UserID, repository.SubmitterProbeOrder)
	if err != nil {
		return nil, err
	}

	// Steps only apply to bugs; anything supplied for other types is
	// discarded rather than stored.
	var steps *string
	if in.Type == models.ReportTypeBug && strings.TrimSpace(in.StepsToReproduce) != "" {
		v := in.StepsToReproduce
		steps = &v
	}

	report := &models.Report{
		ReportNumber:     number,
		Type:             in.Type,
		Title:            in.Title,
		Description:      in.Description,
		StepsToReproduce: steps,
		Priority:         priority,
		Status:           models.StatusOpen, // forced regardless of caller input
		SubmittedBy:      in.UserID,
		SubmittedByRole:  in.Role,
		SubmittedByName:  name,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	middleware.ReportsSubmitted.WithLabelValues(report.Type).Inc()
	s.notifier.Notify(notify.Event{
		Kind:         notify.EventReportCreated,
		ReportNumber: report.ReportNumber,
		ReportType:   report.Type,
		Title:        report.Title,
		Description:  report.Description,
		ActorName:    name,
		OccurredAt:   time.Now().UTC(),
	})

	return report, nil
}

// ListReportsInput carries listing filters plus the caller's identity for
// visibility scoping.
type ListReportsInput struct {
	UserID    uint
	Role      string
	Status    string
	Type      string
	Search    string
	MyReports bool
	Page      int
	Limit     int
}

const (
	defaultPageSize = 50
	maxPageSize     = 100
	filterAll       = "all"
)

// ListReports returns one page of reports ordered newest first, enriched
// with vote counts, comment counts and the caller's vote flags via three
// bulk lookups over the page's ids.
func (s *FeedbackService) ListReports(ctx context.Context, in ListReportsInput) ([]*models.Report, int64, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page := in.Page
	if page <= 0 {
		page = 1
	}

	filter := repository.ReportFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if in.Status != "" && in.Status != filterAll {
		if !models.ValidStatus(in.Status) {
			return nil, 0, models.NewValidationError("Invalid status filter")
		}
		filter.Status = in.Status
	}
	if in.Type != "" && in.Type != filterAll {
		if !models.ValidReportType(in.Type) {
			return nil, 0, models.NewValidationError("Invalid type filter")
		}
		filter.Type = in.Type
	}
	filter.Search = strings.TrimSpace(in.Search)

	// Non-staff callers only ever see their own reports; staff can opt in to
	// the same scoping with my_reports.
	if !models.IsStaffRole(in.Role) || in.MyReports {
		filter.SubmittedBy = in.UserID
	}

	reports, total, err := s.reportRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if err := s.enrichPage(ctx, reports, in.UserID); err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// enrichPage merges vote counts, comment counts and caller-voted flags into
// the page. Reports absent from a lookup keep explicit zero defaults.
func (s *FeedbackService) enrichPage(ctx context.Context, reports []*models.Report, userID uint) error {
	if len(reports) == 0 {
		return nil
	}

	ids := make([]uint, len(reports))
	for i, r := range reports {
		ids[i] = r.ID
	}

	voteCounts, err := s.reportRepo.CountVotesByReportIDs(ctx, ids)
	if err != nil {
		return err
	}
	commentCounts, err := s.reportRepo.CountCommentsByReportIDs(ctx, ids)
	if err != nil {
		return err
	}
	votedIDs, err := s.reportRepo.VotedReportIDs(ctx, userID, ids)
	if err != nil {
		return err
	}
	voted := make(map[uint]bool, len(votedIDs))
	for _, id := range votedIDs {
		voted[id] = true
	}

	for _, r := range reports {
		r.VoteCount = voteCounts[r.ID]
		r.CommentCount = commentCounts[r.ID]
		r.UserHasVoted = voted[r.ID]
	}
	return nil
}

// ReportDetail is the full single-report view.
type ReportDetail struct {
	Report       *models.Report       `json:"report"`
	Comments     []*models.Comment    `json:"comments"`
	Attachments  []*models.Attachment `json:"attachments"`
	VoteCount    int64                `json:"vote_count"`
	UserHasVoted bool                 `json:"user_has_voted"`
}

// GetReportDetail returns one report with its comments (ascending),
// attachments (ascending), vote count and the caller's vote status.
func (s *FeedbackService) GetReportDetail(ctx context.Context, userID uint, role string, reportID uint) (*ReportDetail, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if !models.IsStaffRole(role) && report.SubmittedBy != userID {
		return nil, models.NewForbiddenError("You can only view your own reports")
	}

	comments, err := s.commentRepo.ListByReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	attachments, err := s.attachmentRepo.ListByReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	voteCount, err := s.reportRepo.CountVotes(ctx, reportID)
	if err != nil {
		return nil, err
	}
	hasVoted, err := s.reportRepo.HasVoted(ctx, userID, reportID)
	if err != nil {
		return nil, err
	}

	report.VoteCount = int(voteCount)
	report.CommentCount = len(comments)
	report.UserHasVoted = hasVoted

	return &ReportDetail{
		Report:       report,
		Comments:     comments,
		Attachments:  attachments,
		VoteCount:    voteCount,
		UserHasVoted: hasVoted,
	}, nil
}

// UpdateStatus moves a report to any of the five statuses. There is no
// transition graph: staff may move completed back to open to correct a
// mistake.
func (s *FeedbackService) UpdateStatus(ctx context.Context, actorID uint, reportID uint, status string) (*models.Report, error) {
	if !models.ValidStatus(status) {
		return nil, models.NewValidationError("Invalid status")
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	oldStatus := report.Status

	if err := s.reportRepo.UpdateStatus(ctx, reportID, status); err != nil {
		return nil, err
	}
	report.Status = status

	actorName, nameErr := s.directory.ResolveDisplayName(ctx, actorID, repository.ActorProbeOrder)
	if nameErr != nil {
		actorName = ""
	}
	s.notifier.Notify(notify.Event{
		Kind:         notify.EventStatusChanged,
		ReportNumber: report.ReportNumber,
		ReportType:   report.Type,
		Title:        report.Title,
		ActorName:    actorName,
		OldValue:     oldStatus,
		NewValue:     status,
		OccurredAt:   time.Now().UTC(),
	})

	return report, nil
}

// UpdatePriority moves a report to any of the four priorities.
func (s *FeedbackService) UpdatePriority(ctx context.Context, actorID uint, reportID uint, priority string) (*models.Report, error) {
	if !models.ValidPriority(priority) {
		return nil, models.NewValidationError("Invalid priority")
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	oldPriority := report.Priority

	if err := s.reportRepo.UpdatePriority(ctx, reportID, priority); err != nil {
		return nil, err
	}
	report.Priority = priority

	actorName, nameErr := s.directory.ResolveDisplayName(ctx, actorID, repository.ActorProbeOrder)
	if nameErr != nil {
		actorName = ""
	}
	s.notifier.Notify(notify.Event{
		Kind:         notify.EventPriorityChanged,
		ReportNumber: report.ReportNumber,
		ReportType:   report.Type,
		Title:        report.Title,
		ActorName:    actorName,
		OldValue:     oldPriority,
		NewValue:     priority,
		OccurredAt:   time.Now().UTC(),
	})

	return report, nil
}

// AddComment appends a remark to a report, snapshotting the author's display
// name at post time.
func (s *FeedbackService) AddComment(ctx context.Context, userID uint, role string, reportID uint, body string) (*models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, models.NewValidationError("Comment body is required")
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	name, err := s.directory.ResolveDisplayName(ctx, userID, repository.SubmitterProbeOrder)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReportID: reportID,
		UserID:   userID,
		UserRole: role,
		UserName: name,
		Body:     strings.TrimSpace(body),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.notifier.Notify(notify.Event{
		Kind:         notify.EventCommentAdded,
		ReportNumber: report.ReportNumber,
		ReportType:   report.Type,
		Title:        report.Title,
		Description:  comment.Body,
		ActorName:    name,
		OccurredAt:   time.Now().UTC(),
	})

	return comment, nil
}

// ToggleVote flips the caller's vote on a report. No notification is sent
// for votes.
func (s *FeedbackService) ToggleVote(ctx context.Context, userID, reportID uint) (bool, error) {
	if _, err := s.reportRepo.GetByID(ctx, reportID); err != nil {
		return false, err
	}
	return s.reportRepo.ToggleVote(ctx, userID, reportID)
}

// Stats aggregates report totals for the staff dashboard.
func (s *FeedbackService) Stats(ctx context.Context) (*models.ReportStats, error) {
	return s.reportRepo.Stats(ctx)
}
