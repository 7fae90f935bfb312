// Command admin-setup is a thin CLI over internal/admin.Service: every
// subcommand is a direct call into the library, so operators scripting
// against Postgres never need the HTTP API running.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/admin"
	"github.com/pierre-mcp/pierre/internal/config"
	"github.com/pierre-mcp/pierre/internal/storage/postgres"
)

// Exit codes: 0 ok, 1 validation error, 2 conflict, 3 I/O error.
const (
	exitOK         = 0
	exitValidation = 1
	exitConflict   = 2
	exitIO         = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return exitValidation
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading config: %v\n", err)
		return exitIO
	}

	ctx := context.Background()
	store, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: connecting to database: %v\n", err)
		return exitIO
	}
	defer store.Close()

	svc := admin.NewService(store)

	switch args[0] {
	case "create-admin-user":
		return cmdCreateAdminUser(ctx, svc, args[1:])
	case "generate-token":
		return cmdGenerateToken(ctx, svc, args[1:])
	case "list-tokens":
		return cmdListTokens(ctx, svc)
	case "revoke-token":
		return cmdRevokeToken(ctx, svc, args[1:])
	case "rotate-token":
		return cmdRotateToken(ctx, svc, args[1:])
	case "token-stats":
		return cmdTokenStats(ctx, svc)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown subcommand %q\n", args[0])
		usage()
		return exitValidation
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin-setup <create-admin-user|generate-token|list-tokens|revoke-token|rotate-token|token-stats> [flags]")
}

func cmdCreateAdminUser(ctx context.Context, svc *admin.Service, args []string) int {
	fs := flag.NewFlagSet("create-admin-user", flag.ContinueOnError)
	email := fs.String("email", "", "admin email address")
	password := fs.String("password", "", "admin password")
	if err := fs.Parse(args); err != nil {
		return exitValidation
	}
	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "error: -email and -password are required")
		return exitValidation
	}

	u, err := svc.Bootstrap(ctx, *email, *password)
	if err != nil {
		if err == admin.ErrAlreadyBootstrapped {
			fmt.Fprintln(os.Stderr, "error: an admin account already exists")
			return exitConflict
		}
		fmt.Fprintf(os.Stderr, "error: creating admin user: %v\n", err)
		return exitIO
	}

	fmt.Printf("created admin user %s (%s)\n", u.Email, u.ID)
	return exitOK
}

func cmdGenerateToken(ctx context.Context, svc *admin.Service, args []string) int {
	fs := flag.NewFlagSet("generate-token", flag.ContinueOnError)
	name := fs.String("service-name", "", "name of the service this token authenticates")
	desc := fs.String("description", "", "human-readable description")
	superadmin := fs.Bool("superadmin", false, "grant every permission")
	ttl := fs.Duration("ttl", 0, "token lifetime, 0 for no expiry")
	if err := fs.Parse(args); err != nil {
		return exitValidation
	}
	if *name == "" {
		fmt.Fprintln(os.Stderr, "error: -service-name is required")
		return exitValidation
	}

	raw, token, err := svc.CreateAdminToken(ctx, *name, *desc, nil, *superadmin, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: generating token: %v\n", err)
		return exitIO
	}

	fmt.Printf("token id:     %s\n", token.ID)
	fmt.Printf("secret:       %s\n", raw)
	fmt.Println("this secret is shown once and cannot be recovered — store it now")
	return exitOK
}

func cmdListTokens(ctx context.Context, svc *admin.Service) int {
	tokens, err := svc.ListAdminTokens(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: listing tokens: %v\n", err)
		return exitIO
	}
	for _, t := range tokens {
		status := "active"
		if !t.Active {
			status = "revoked"
		}
		fmt.Printf("%s  %-20s  %s\n", t.ID, t.ServiceName, status)
	}
	return exitOK
}

func cmdRevokeToken(ctx context.Context, svc *admin.Service, args []string) int {
	fs := flag.NewFlagSet("revoke-token", flag.ContinueOnError)
	id := fs.String("id", "", "token id")
	if err := fs.Parse(args); err != nil {
		return exitValidation
	}
	tokenID, err := uuid.Parse(*id)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: -id must be a valid token id")
		return exitValidation
	}

	if err := svc.RevokeAdminToken(ctx, tokenID); err != nil {
		fmt.Fprintf(os.Stderr, "error: revoking token: %v\n", err)
		return exitIO
	}
	fmt.Println("revoked")
	return exitOK
}

func cmdRotateToken(ctx context.Context, svc *admin.Service, args []string) int {
	fs := flag.NewFlagSet("rotate-token", flag.ContinueOnError)
	id := fs.String("id", "", "token id")
	ttl := fs.Duration("ttl", 0, "new token lifetime, 0 for no expiry")
	if err := fs.Parse(args); err != nil {
		return exitValidation
	}
	tokenID, err := uuid.Parse(*id)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: -id must be a valid token id")
		return exitValidation
	}

	raw, token, err := svc.RotateAdminToken(ctx, tokenID, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: rotating token: %v\n", err)
		return exitIO
	}

	fmt.Printf("new token id: %s\n", token.ID)
	fmt.Printf("secret:       %s\n", raw)
	return exitOK
}

func cmdTokenStats(ctx context.Context, svc *admin.Service) int {
	tokens, err := svc.ListAdminTokens(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: listing tokens: %v\n", err)
		return exitIO
	}

	var active, revoked, superadmin, expiring int
	soon := time.Now().Add(7 * 24 * time.Hour)
	for _, t := range tokens {
		if t.Active {
			active++
		} else {
			revoked++
		}
		if t.IsSuperAdmin {
			superadmin++
		}
		if t.ExpiresAt != nil && t.ExpiresAt.Before(soon) {
			expiring++
		}
	}

	fmt.Printf("total:               %d\n", len(tokens))
	fmt.Printf("active:              %d\n", active)
	fmt.Printf("revoked:             %d\n", revoked)
	fmt.Printf("superadmin:          %d\n", superadmin)
	fmt.Printf("expiring in 7 days:  %d\n", expiring)
	return exitOK
}
