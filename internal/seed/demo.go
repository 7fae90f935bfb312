package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pierre-mcp/pierre/internal/storage"
)

// RunDemo provisions the "acme" tenant with a richer set of demo data than
// Run: five users across running/cycling/triathlon, a shared coach
// persona, goals in varying states, and a development API key; no shared
// insights are created. It is
// destructive: an existing "acme" tenant is deleted first so repeated runs
// always produce the same fixture set.
func RunDemo(ctx context.Context, store storage.Provider, logger *slog.Logger) error {
	if existing, err := store.GetTenantBySlug(ctx, "acme"); err == nil {
		logger.Info("seed-demo: dropping existing tenant 'acme'")
		if err := store.DeleteTenant(ctx, existing.ID); err != nil {
			return fmt.Errorf("deleting existing tenant: %w", err)
		}
	}

	tenant, err := store.CreateTenant(ctx, storage.Tenant{
		Name: "Acme Fitness",
		Slug: "acme",
		Plan: storage.TierEnterprise,
	})
	if err != nil {
		return fmt.Errorf("provisioning tenant: %w", err)
	}
	logger.Info("seed-demo: provisioned tenant", "id", tenant.ID, "slug", tenant.Slug)

	type userSpec struct {
		email, name, role string
	}
	specs := []userSpec{
		{"alice@acme.example.com", "Alice Hartmann", storage.RoleAdmin},
		{"bob@acme.example.com", "Bob Mitchell", storage.RoleUser},
		{"chandra@acme.example.com", "Chandra Patel", storage.RoleUser},
		{"diana@acme.example.com", "Diana Krueger", storage.RoleUser},
		{"enzo@acme.example.com", "Enzo Rossi", storage.RoleUser},
	}

	users := make([]storage.User, len(specs))
	for i, s := range specs {
		u, err := createSeedUser(ctx, store, tenant.ID, s.email, s.name, s.role)
		if err != nil {
			return fmt.Errorf("creating user %s: %w", s.name, err)
		}
		users[i] = u
	}
	alice, bob, chandra, diana, enzo := users[0], users[1], users[2], users[3], users[4]
	logger.Info("seed-demo: created users", "count", len(users))

	coach, err := store.CreateCoach(ctx, storage.Coach{
		TenantID:             tenant.ID,
		Name:                 "Marathon Coach",
		Description:          "Periodized marathon training guidance with a conservative, injury-averse tone.",
		SystemPromptTemplate: "You are an experienced marathon coach. Prioritize gradual load progression and recovery.",
		AllowedTools:         []string{"analyze_performance_trends", "analyze_training_load", "generate_recommendations", "set_goal"},
		DefaultEnabled:       true,
	})
	if err != nil {
		return fmt.Errorf("creating demo coach: %w", err)
	}
	logger.Info("seed-demo: created coach", "id", coach.ID, "name", coach.Name)

	if err := store.SetCoachAssignment(ctx, storage.CoachAssignment{UserID: alice.ID, CoachID: coach.ID, Favorited: true}); err != nil {
		return fmt.Errorf("assigning coach to alice: %w", err)
	}
	if err := store.SetCoachAssignment(ctx, storage.CoachAssignment{UserID: bob.ID, CoachID: coach.ID}); err != nil {
		return fmt.Errorf("assigning coach to bob: %w", err)
	}

	now := time.Now()
	goalSpecs := []storage.Goal{
		{UserID: alice.ID, TenantID: tenant.ID, Kind: "distance", Sport: "running", TargetValue: 42195, Unit: "meters", SessionsPerWeek: 5, StartDate: now.AddDate(0, -1, 0), Deadline: now.AddDate(0, 2, 0), State: storage.GoalStateActive},
		{UserID: bob.ID, TenantID: tenant.ID, Kind: "distance", Sport: "cycling", TargetValue: 160000, Unit: "meters", SessionsPerWeek: 3, StartDate: now.AddDate(0, -2, 0), Deadline: now.AddDate(0, 1, 0), State: storage.GoalStateActive},
		{UserID: chandra.ID, TenantID: tenant.ID, Kind: "duration", Sport: "swimming", TargetValue: 3600, Unit: "seconds", SessionsPerWeek: 4, StartDate: now.AddDate(0, -3, 0), Deadline: now.AddDate(0, -1, 0), State: storage.GoalStateAchieved},
		{UserID: diana.ID, TenantID: tenant.ID, Kind: "distance", Sport: "running", TargetValue: 10000, Unit: "meters", SessionsPerWeek: 3, StartDate: now.AddDate(0, -1, 0), Deadline: now.AddDate(0, 1, 0), State: storage.GoalStatePaused},
		{UserID: enzo.ID, TenantID: tenant.ID, Kind: "distance", Sport: "triathlon", TargetValue: 51500, Unit: "meters", SessionsPerWeek: 6, StartDate: now.AddDate(0, -1, 0), Deadline: now.AddDate(0, 5, 0), State: storage.GoalStateActive},
	}
	for _, g := range goalSpecs {
		if _, err := store.CreateGoal(ctx, g); err != nil {
			return fmt.Errorf("creating goal for %s: %w", g.Sport, err)
		}
	}
	logger.Info("seed-demo: created goals", "count", len(goalSpecs))

	if err := seedAPIKey(ctx, store, alice.ID, logger); err != nil {
		return err
	}

	logger.Info("seed-demo: completed",
		"tenant", tenant.Slug,
		"users", len(users),
		"goals", len(goalSpecs),
		"coaches", 1,
	)
	return nil
}
