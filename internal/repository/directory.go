package repository

import (
	"context"
	"errors"
	"strings"

	"coachhub/internal/models"

	"gorm.io/gorm"
)

// Probe orders for display-name resolution. Submissions come mostly from
// clients so the client table goes first; workflow changes come from staff so
// that order is inverted.
var (
	SubmitterProbeOrder = []string{models.RoleClient, models.RoleCoach, models.RoleStaff, models.RoleAdmin}
	ActorProbeOrder     = []string{models.RoleStaff, models.RoleAdmin, models.RoleCoach, models.RoleClient}
)

// UserDirectory resolves a user's display name from the role profile tables.
// Resolution is best-effort: an unmatched user yields an empty name, not an
// error, so a missing profile never blocks a write.
type UserDirectory interface {
	ResolveDisplayName(ctx context.Context, userID uint, order []string) (string, error)
}

type userDirectory struct {
	db *gorm.DB
}

// NewUserDirectory creates a directory over the role profile tables.
func NewUserDirectory(db *gorm.DB) UserDirectory {
	return &userDirectory{db: db}
}

func (d *userDirectory) ResolveDisplayName(ctx context.Context, userID uint, order []string) (string, error) {
	if len(order) == 0 {
		order = SubmitterProbeOrder
	}

	for _, role := range order {
		first, last, err := d.probe(ctx, role, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(first + " " + last), nil
	}

	return "", nil
}

// probe checks a single role table for the user, stopping the caller's scan
// at the first hit.
func (d *userDirectory) probe(ctx context.Context, role string, userID uint) (string, string, error) {
	switch role {
	case models.RoleClient:
		var p models.ClientProfile
		if err := d.db.WithContext(ctx).Select("first_name", "last_name").Where("user_id = ?", userID).First(&p).Error; err != nil {
			return "", "", err
		}
		return p.FirstName, p.LastName, nil
	case models.RoleCoach:
		var p models.CoachProfile
		if err := d.db.WithContext(ctx).Select("first_name", "last_name").Where("user_id = ?", userID).First(&p).Error; err != nil {
			return "", "", err
		}
		return p.FirstName, p.LastName, nil
	case models.RoleStaff:
		var p models.StaffProfile
		if err := d.db.WithContext(ctx).Select("first_name", "last_name").Where("user_id = ?", userID).First(&p).Error; err != nil {
			return "", "", err
		}
		return p.FirstName, p.LastName, nil
	case models.RoleAdmin:
		var p models.AdminProfile
		if err := d.db.WithContext(ctx).Select("first_name", "last_name").Where("user_id = ?", userID).First(&p).Error; err != nil {
			return "", "", err
		}
		return p.FirstName, p.LastName, nil
	}
	return "", "", gorm.ErrRecordNotFound
}
