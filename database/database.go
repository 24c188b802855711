package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"orgsnap-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Duplicate-key inserts must surface as gorm.ErrDuplicatedKey: the
		// friendship store treats them as ErrConflict.
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMembership{},
		&models.Friendship{},
		&models.Photo{},
		&models.PhotoUser{},
		&models.CommunicationStatus{},
		&models.Activity{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addDatabaseConstraints(db); err != nil {
		return fmt.Errorf("failed to add database constraints: %w", err)
	}

	return nil
}

func addDatabaseConstraints(db *gorm.DB) error {
	// The canonical-order invariant is enforced by the Friendship factory;
	// the check constraint is a backstop against ad-hoc writes.
	if err := db.Exec("ALTER TABLE friendships ADD CONSTRAINT ck_friendships_canonical CHECK (user_id_low < user_id_high)").Error; err != nil {
		fmt.Printf("Warning: Could not add check constraint for friendships: %v\n", err)
	}

	return nil
}

// SeedData populates the database with development fixtures.
func SeedData(db *gorm.DB) error {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)

	if userCount > 0 {
		fmt.Println("Database already has data, skipping seed")
		return nil
	}

	alice := "Alice Tanaka"
	bob := "Bob Suzuki"
	testUsers := []models.User{
		{
			ID:            "user-1",
			Name:          &alice,
			Email:         "alice@example.com",
			Password:      "$2a$10$dummy",
			EmailVerified: true,
		},
		{
			ID:            "user-2",
			Name:          &bob,
			Email:         "bob@example.com",
			Password:      "$2a$10$dummy",
			EmailVerified: true,
		},
	}

	for _, user := range testUsers {
		if err := db.Create(&user).Error; err != nil {
			fmt.Printf("Warning: Could not create test user %s: %v\n", user.Email, err)
		}
	}

	description := "A sample workplace for development"
	org := models.Organization{
		ID:             "org-1",
		Name:           "Acme Inc.",
		Description:    &description,
		ApprovalMethod: models.ApprovalMethodManual,
	}
	if err := db.Create(&org).Error; err != nil {
		fmt.Printf("Warning: Could not create test organization: %v\n", err)
	}

	joined := time.Now()
	membership := models.OrganizationMembership{
		ID:             "membership-1",
		UserID:         "user-1",
		OrganizationID: org.ID,
		Role:           models.MembershipRoleAdmin,
		Status:         models.MembershipStatusApproved,
		JoinedAt:       &joined,
	}
	if err := db.Create(&membership).Error; err != nil {
		fmt.Printf("Warning: Could not create test membership: %v\n", err)
	}

	fmt.Println("Database seeded with test data")
	return nil
}
