// Package seed provisions development data: a demo tenant, a handful of
// users, fitness goals, and a development API key. It talks to storage
// exclusively through storage.Provider so it works unchanged against both
// the in-memory and Postgres backends.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/crypto"
	"github.com/pierre-mcp/pierre/internal/storage"
)

// DevAPIKey is the raw API key seeded for development/testing. Never use
// this in production.
const DevAPIKey = "pierre_dev_seed_key_do_not_use_in_production"

// Run provisions the "acme" development tenant and populates it with sample
// users and goals. It is idempotent: if the tenant already exists it logs a
// message and returns nil.
func Run(ctx context.Context, store storage.Provider, logger *slog.Logger) error {
	if _, err := store.GetTenantBySlug(ctx, "acme"); err == nil {
		logger.Info("seed: tenant 'acme' already exists, skipping")
		return nil
	}

	tenant, err := store.CreateTenant(ctx, storage.Tenant{
		Name: "Acme Fitness",
		Slug: "acme",
		Plan: storage.TierProfessional,
	})
	if err != nil {
		return fmt.Errorf("creating seed tenant: %w", err)
	}
	logger.Info("seed: created tenant", "tenant_id", tenant.ID, "slug", tenant.Slug)

	alice, err := createSeedUser(ctx, store, tenant.ID, "alice@acme.example.com", "Alice Runner", storage.RoleAdmin)
	if err != nil {
		return err
	}
	if _, err := createSeedUser(ctx, store, tenant.ID, "bob@acme.example.com", "Bob Cyclist", storage.RoleUser); err != nil {
		return err
	}

	if _, err := store.CreateGoal(ctx, storage.Goal{
		UserID:          alice.ID,
		TenantID:        tenant.ID,
		Kind:            "distance",
		Sport:           "running",
		TargetValue:     42195,
		Unit:            "meters",
		SessionsPerWeek: 4,
		StartDate:       time.Now(),
		Deadline:        time.Now().AddDate(0, 3, 0),
		State:           storage.GoalStateActive,
	}); err != nil {
		return fmt.Errorf("seeding goal: %w", err)
	}
	logger.Info("seed: created goal", "user", alice.Email, "kind", "distance")

	if err := seedAPIKey(ctx, store, alice.ID, logger); err != nil {
		return err
	}

	logger.Info("seed: completed successfully", "tenant", tenant.Slug, "users", 2, "goals", 1, "api_keys", 1)
	return nil
}

func createSeedUser(ctx context.Context, store storage.Provider, tenantID uuid.UUID, email, name, role string) (storage.User, error) {
	hash, err := crypto.HashPassword("pierre-dev-password")
	if err != nil {
		return storage.User{}, fmt.Errorf("hashing seed password: %w", err)
	}
	u, err := store.CreateUser(ctx, storage.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  name,
		Tier:         storage.TierProfessional,
		TenantID:     &tenantID,
		Role:         role,
		Status:       storage.StatusActive,
	})
	if err != nil {
		return storage.User{}, fmt.Errorf("creating user %s: %w", email, err)
	}
	return u, nil
}

func seedAPIKey(ctx context.Context, store storage.Provider, userID uuid.UUID, logger *slog.Logger) error {
	key, err := store.CreateAPIKey(ctx, storage.APIKey{
		UserID:    userID,
		Name:      "Development seed key",
		KeyPrefix: DevAPIKey[:12],
		KeyHash:   crypto.HashAPIKey(DevAPIKey),
		Tier:      storage.TierProfessional,
		Active:    true,
	})
	if err != nil {
		return fmt.Errorf("creating seed API key: %w", err)
	}
	logger.Info("seed: created API key", "id", key.ID, "prefix", key.KeyPrefix, "raw_key", DevAPIKey)
	return nil
}
