package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bookline/internal/identity/models"
)

// UserDirectory defines methods for seeding users
type UserDirectory interface {
	Append(ctx context.Context, user *models.User) error
}

// Seeder populates the in-memory directory with demo data
type Seeder struct {
	users  UserDirectory
	logger *slog.Logger
}

// New creates a new seeder
func New(users UserDirectory, logger *slog.Logger) *Seeder {
	return &Seeder{
		users:  users,
		logger: logger,
	}
}

// SeedAll populates the directory with the demo roster.
// business@test.com must come first among business accounts: the mock OAuth
// flow signs in the first business-type user it finds.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.Info("seeding demo data...")

	demoUsers := []struct {
		email     string
		firstName string
		lastName  string
		phone     string
		userType  models.UserType
	}{
		{"business@test.com", "Minji", "Kang", "010-2345-6789", models.UserTypeBusiness},
		{"user@test.com", "Jiho", "Park", "010-1234-5678", models.UserTypeIndividual},
		{"enterprise@test.com", "Sora", "Lee", "010-3456-7890", models.UserTypeEnterprise},
		{"owner@riverside-gym.com", "Daniel", "Oh", "010-4567-8901", models.UserTypeBusiness},
		{"studio@lumen-pilates.com", "Hana", "Choi", "010-5678-9012", models.UserTypeBusiness},
		{"alice@example.com", "Alice", "Anderson", "", models.UserTypeIndividual},
		{"bob@example.com", "Bob", "Brown", "", models.UserTypeIndividual},
		{"grace@example.com", "Grace", "Garcia", "", models.UserTypeIndividual},
	}

	now := time.Now()
	for _, u := range demoUsers {
		user, err := models.NewUser(uuid.NewString(), u.email, u.firstName, u.lastName, u.phone, u.userType, now)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.email, err)
		}
		if err := s.users.Append(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.email, err)
		}
	}

	s.logger.Info("demo data seeded successfully",
		"users", len(demoUsers),
	)

	return nil
}
