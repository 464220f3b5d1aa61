// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"coachhub/internal/models"
	"coachhub/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder populates the database with demo data.
type Seeder struct {
	db        *gorm.DB
	allocator repository.SequenceAllocator
	rng       *rand.Rand
}

// NewSeeder creates a seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:        db,
		allocator: repository.NewSequenceAllocator(db),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes seedable tables. Order matters because of foreign keys.
func (s *Seeder) ClearAll() error {
	tables := []string{
		"report_attachments", "report_comments", "report_votes", "reports",
		"report_counters", "blog_posts", "newsletter_subscribers",
		"client_profiles", "coach_profiles", "staff_profiles", "admin_profiles",
		"users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	log.Println("✓ Cleared existing data")
	return nil
}

// SeedUsers creates n users split across the four roles, each with a
// matching profile row. All users share the password "password123".
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	roles := []string{models.RoleClient, models.RoleClient, models.RoleClient,
		models.RoleCoach, models.RoleStaff, models.RoleAdmin}

	userRepo := repository.NewUserRepository(s.db)
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Email:    gofakeit.Email(),
			Password: string(hashed),
			Role:     roles[i%len(roles)],
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, err
		}
		if err := userRepo.CreateProfile(context.Background(), user.ID, user.Role,
			gofakeit.FirstName(), gofakeit.LastName()); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	log.Printf("✓ Created %d users", len(users))
	return users, nil
}

// SeedReports creates n reports with realistic numbers, statuses, votes and
// comments spread across the given users.
func (s *Seeder) SeedReports(users []*models.User, n int) error {
	if len(users) == 0 {
		return fmt.Errorf("no users to attribute reports to")
	}

	statuses := []string{
		models.StatusOpen, models.StatusOpen, models.StatusInProgress,
		models.StatusQA, models.StatusRejected, models.StatusCompleted,
	}
	priorities := []string{
		models.PriorityLow, models.PriorityMedium, models.PriorityMedium,
		models.PriorityHigh, models.PriorityCritical,
	}
	types := []string{models.ReportTypeBug, models.ReportTypeFeature}

	directory := repository.NewUserDirectory(s.db)

	for i := 0; i < n; i++ {
		submitter := users[s.rng.Intn(len(users))]
		reportType := types[s.rng.Intn(len(types))]

		number, err := s.allocator.NextReportNumber(context.Background(), reportType)
		if err != nil {
			return err
		}
		name, _ := directory.ResolveDisplayName(context.Background(), submitter.ID, repository.SubmitterProbeOrder)

		report := &models.Report{
			ReportNumber:    number,
			Type:            reportType,
			Title:           gofakeit.Sentence(6),
			Description:     gofakeit.Paragraph(1, 3, 8, "\n"),
			Priority:        priorities[s.rng.Intn(len(priorities))],
			Status:          statuses[s.rng.Intn(len(statuses))],
			SubmittedBy:     submitter.ID,
			SubmittedByRole: submitter.Role,
			SubmittedByName: name,
			CreatedAt:       time.Now().Add(-time.Duration(s.rng.Intn(90*24)) * time.Hour),
		}
		if reportType == models.ReportTypeBug {
			steps := gofakeit.Paragraph(1, 4, 6, "\n")
			report.StepsToReproduce = &steps
		}
		if err := s.db.Create(report).Error; err != nil {
			return err
		}

		// A few votes and comments per report
		for _, voter := range pickUsers(s.rng, users, s.rng.Intn(4)) {
			s.db.Exec(`INSERT INTO report_votes (report_id, user_id, created_at)
				VALUES (?, ?, NOW()) ON CONFLICT (report_id, user_id) DO NOTHING`,
				report.ID, voter.ID)
		}
		for _, author := range pickUsers(s.rng, users, s.rng.Intn(3)) {
			authorName, _ := directory.ResolveDisplayName(context.Background(), author.ID, repository.SubmitterProbeOrder)
			s.db.Create(&models.Comment{
				ReportID: report.ID,
				UserID:   author.ID,
				UserRole: author.Role,
				UserName: authorName,
				Body:     gofakeit.Sentence(12),
			})
		}
	}
	log.Printf("✓ Created %d reports with votes and comments", n)
	return nil
}

// SeedBlog creates a handful of published blog posts authored by the first
// staff user found.
func (s *Seeder) SeedBlog(users []*models.User, n int) error {
	var author *models.User
	for _, u := range users {
		if models.IsStaffRole(u.Role) {
			author = u
			break
		}
	}
	if author == nil {
		return fmt.Errorf("no staff user to author blog posts")
	}

	for i := 0; i < n; i++ {
		post := &models.BlogPost{
			Slug:      fmt.Sprintf("%s-%d", gofakeit.Word(), i),
			Title:     gofakeit.Sentence(5),
			Body:      gofakeit.Paragraph(3, 5, 10, "\n\n"),
			Published: i%4 != 0,
			AuthorID:  author.ID,
		}
		if err := s.db.Create(post).Error; err != nil {
			return err
		}
	}
	log.Printf("✓ Created %d blog posts", n)
	return nil
}

func pickUsers(rng *rand.Rand, users []*models.User, n int) []*models.User {
	if n > len(users) {
		n = len(users)
	}
	picked := make([]*models.User, 0, n)
	for _, i := range rng.Perm(len(users))[:n] {
		picked = append(picked, users[i])
	}
	return picked
}
