package app

import (
	"context"
	"log"

	"github.com/google/uuid"

	"toolcrib/db"
	"toolcrib/models"
)

// BootstrapFirstAdmin creates an admin user from ADMIN_EMAIL when it does not
// exist yet, so a fresh deployment has someone who can manage the catalog.
func BootstrapFirstAdmin(ctx context.Context, cfg Config, repo *db.Repo) {
	if cfg.AdminEmail == "" {
		return
	}
	if _, err := repo.FindUserByEmail(ctx, cfg.AdminEmail); err == nil {
		return
	}

	u := &models.User{
		ID:    uuid.NewString(),
		Name:  cfg.AdminEmail,
		Email: cfg.AdminEmail,
		Role:  models.RoleAdmin,
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		log.Printf("bootstrap admin failed: %v", err)
		return
	}
	log.Printf("[BOOTSTRAP] created admin user %s", cfg.AdminEmail)
}
