package database

import "coachhub/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.ClientProfile{},
		&models.CoachProfile{},
		&models.StaffProfile{},
		&models.AdminProfile{},
		&models.Report{},
		&models.ReportCounter{},
		&models.Vote{},
		&models.Comment{},
		&models.Attachment{},
		&models.BlogPost{},
		&models.NewsletterSubscriber{},
	}
}
