package repository

import (
	"context"

	"coachhub/internal/cache"
	"coachhub/internal/models"

	"gorm.io/gorm"
)

// ReportFilter narrows report listings. Zero values mean "no filter"; the
// service layer maps the public "all" sentinel to an empty string before the
// filter reaches this package.
type ReportFilter struct {
	Status      string
	Type        string
	Search      string
	SubmittedBy uint // 0 = any submitter
	Limit       int
	Offset      int
}

// ReportRepository defines the interface for report data operations.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	List(ctx context.Context, filter ReportFilter) ([]*models.Report, int64, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	UpdatePriority(ctx context.Context, id uint, priority string) error
	Stats(ctx context.Context) (*models.ReportStats, error)

	ToggleVote(ctx context.Context, userID, reportID uint) (bool, error)
	CountVotes(ctx context.Context, reportID uint) (int64, error)
	HasVoted(ctx context.Context, userID, reportID uint) (bool, error)

	// Bulk enrichment lookups keyed by the page's report ids.
	CountVotesByReportIDs(ctx context.Context, reportIDs []uint) (map[uint]int, error)
	CountCommentsByReportIDs(ctx context.Context, reportIDs []uint) (map[uint]int, error)
	VotedReportIDs(ctx context.Context, userID uint, reportIDs []uint) ([]uint, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	err := r.db.WithContext(ctx).Create(report).Error
	if err == nil {
		cache.Invalidate(ctx, cache.StatsKey)
	}
	return err
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	err := cache.Aside(ctx, cache.ReportKey(id), &report, cache.ReportTTL, func() error {
		return r.db.WithContext(ctx).First(&report, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// applyFilter appends WHERE clauses for the populated filter fields.
func (r *reportRepository) applyFilter(db *gorm.DB, filter ReportFilter) *gorm.DB {
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}
	if filter.SubmittedBy != 0 {
		db = db.Where("submitted_by = ?", filter.SubmittedBy)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where("title ILIKE ? OR description ILIKE ? OR report_number ILIKE ?", like, like, like)
	}
	return db
}

func (r *reportRepository) List(ctx context.Context, filter ReportFilter) ([]*models.Report, int64, error) {
	var total int64
	counted := r.applyFilter(r.db.WithContext(ctx).Model(&models.Report{}), filter)
	if err := counted.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []*models.Report
	err := r.applyFilter(r.db.WithContext(ctx), filter).
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err == nil {
		cache.InvalidateReport(ctx, id)
	}
	return err
}

func (r *reportRepository) UpdatePriority(ctx context.Context, id uint, priority string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ?", id).
		Update("priority", priority).Error
	if err == nil {
		cache.InvalidateReport(ctx, id)
	}
	return err
}

type statusCount struct {
	Key   string
	Count int64
}

func (r *reportRepository) Stats(ctx context.Context) (*models.ReportStats, error) {
	stats := &models.ReportStats{
		ByStatus: map[string]int64{},
		ByType:   map[string]int64{},
	}

	err := cache.Aside(ctx, cache.StatsKey, stats, cache.StatsTTL, func() error {
		if err := r.db.WithContext(ctx).
			Model(&models.Report{}).
			Count(&stats.Total).Error; err != nil {
			return err
		}

		var byStatus []statusCount
		if err := r.db.WithContext(ctx).
			Model(&models.Report{}).
			Select("status as key, COUNT(*) as count").
			Group("status").
			Scan(&byStatus).Error; err != nil {
			return err
		}
		for _, row := range byStatus {
			stats.ByStatus[row.Key] = row.Count
		}

		var byType []statusCount
		if err := r.db.WithContext(ctx).
			Model(&models.Report{}).
			Select("type as key, COUNT(*) as count").
			Group("type").
			Scan(&byType).Error; err != nil {
			return err
		}
		for _, row := range byType {
			stats.ByType[row.Key] = row.Count
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *reportRepository) ToggleVote(ctx context.Context, userID, reportID uint) (bool, error) {
	// INSERT ... ON CONFLICT DO NOTHING is atomic; the unique constraint, not
	// a prior read, decides whether this request adds or removes the vote.
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO report_votes (report_id, user_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (report_id, user_id) DO NOTHING`,
		reportID, userID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		cache.InvalidateReport(ctx, reportID)
		return true, nil
	}

	// Vote already existed: this toggle removes it.
	err := r.db.WithContext(ctx).
		Where("report_id = ? AND user_id = ?", reportID, userID).
		Delete(&models.Vote{}).Error
	if err == nil {
		cache.InvalidateReport(ctx, reportID)
	}
	return false, err
}

func (r *reportRepository) CountVotes(ctx context.Context, reportID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("report_id = ?", reportID).
		Count(&count).Error
	return count, err
}

func (r *reportRepository) HasVoted(ctx context.Context, userID, reportID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("report_id = ? AND user_id = ?", reportID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type idCount struct {
	ReportID uint
	Count    int
}

func (r *reportRepository) CountVotesByReportIDs(ctx context.Context, reportIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(reportIDs))
	if len(reportIDs) == 0 {
		return counts, nil
	}
	var rows []idCount
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Select("report_id, COUNT(*) as count").
		Where("report_id IN ?", reportIDs).
		Group("report_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ReportID] = row.Count
	}
	return counts, nil
}

func (r *reportRepository) CountCommentsByReportIDs(ctx context.Context, reportIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(reportIDs))
	if len(reportIDs) == 0 {
		return counts, nil
	}
	var rows []idCount
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("report_id, COUNT(*) as count").
		Where("report_id IN ?", reportIDs).
		Group("report_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ReportID] = row.Count
	}
	return counts, nil
}

func (r *reportRepository) VotedReportIDs(ctx context.Context, userID uint, reportIDs []uint) ([]uint, error) {
	if len(reportIDs) == 0 {
		return nil, nil
	}
	var votedIDs []uint
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("user_id = ? AND report_id IN ?", userID, reportIDs).
		Pluck("report_id", &votedIDs).Error
	return votedIDs, err
}
