// Command userctl bootstraps accounts directly against the database, most
// importantly the first administrator before the API has anyone who could
// provision it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/persistence"
	"github.com/spec-kit/account-service/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "userctl:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	if len(os.Args) < 2 || os.Args[1] != "create" {
		return fmt.Errorf("usage: userctl create -username <name> -email <email> -password <password> [-admin=<bool>]")
	}

	createCmd := flag.NewFlagSet("create", flag.ExitOnError)
	username := createCmd.String("username", "", "account username")
	email := createCmd.String("email", "", "account email")
	password := createCmd.String("password", "", "account password (plaintext, hashed before storage)")
	// bootstrap accounts are administrators unless told otherwise
	isAdmin := createCmd.Bool("admin", true, "grant administrative privileges")
	if err := createCmd.Parse(os.Args[2:]); err != nil {
		return err
	}

	if *username == "" || *password == "" {
		return fmt.Errorf("username and password are required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, zap.NewNop())
	if err != nil {
		return fmt.Errorf("cannot connect to database: %w", err)
	}
	defer pg.Close()

	backend := store.NewBackend(pg.Pool, zap.NewNop(), cfg.Postgres.OpTimeout())
	if err := backend.AddUser(ctx, &domain.User{
		Username: *username,
		Email:    *email,
		Password: auth.Hash(*password),
		IsAdmin:  *isAdmin,
	}); err != nil {
		return fmt.Errorf("cannot create user: %w", err)
	}

	fmt.Printf("created user %q (admin=%v)\n", *username, *isAdmin)
	return nil
}
