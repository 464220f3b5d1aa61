package repository

import (
	"context"
	"errors"

	"coachhub/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for auth identity operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetRole(ctx context.Context, id uint) (string, error)
	CreateProfile(ctx context.Context, userID uint, role, firstName, lastName string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetRole(ctx context.Context, id uint) (string, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Select("role").First(&user, id).Error; err != nil {
		return "", err
	}
	return user.Role, nil
}

func (r *userRepository) CreateProfile(ctx context.Context, userID uint, role, firstName, lastName string) error {
	switch role {
	case models.RoleClient:
		return r.db.WithContext(ctx).Create(&models.ClientProfile{
			UserID: userID, FirstName: firstName, LastName: lastName,
		}).Error
	case models.RoleCoach:
		return r.db.WithContext(ctx).Create(&models.CoachProfile{
			UserID: userID, FirstName: firstName, LastName: lastName,
		}).Error
	case models.RoleStaff:
		return r.db.WithContext(ctx).Create(&models.StaffProfile{
			UserID: userID, FirstName: firstName, LastName: lastName,
		}).Error
	case models.RoleAdmin:
		return r.db.WithContext(ctx).Create(&models.AdminProfile{
			UserID: userID, FirstName: firstName, LastName: lastName,
		}).Error
	}
	return errors.New("unknown role " + role)
}
