// Command setrole assigns a role to an existing user profile.
//
//	setrole -email someone@campus.edu -role cleaner
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/config"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/database"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/logging"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/models"
	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/repository"
)

func main() {
	email := flag.String("email", "", "email of the user to update")
	role := flag.String("role", string(models.RoleCleaner), "role to assign: person or cleaner")
	flag.Parse()

	cfg := config.Load()
	logging.Setup(cfg.Environment)

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: setrole -email <address> [-role person|cleaner]")
		os.Exit(2)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, repository.NewProfileRepository(db), *email, models.Role(*role)); err != nil {
		slog.Error("set role failed", "email", *email, "error", err)
		cancel()
		database.Close(db)
		os.Exit(1)
	}
}

func run(ctx context.Context, profiles *repository.ProfileRepository, email string, role models.Role) error {
	profile, err := profiles.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if err := profiles.SetRole(ctx, profile.UID, role); err != nil {
		return err
	}
	slog.Info("role assigned", "user_id", profile.UID.String(), "email", profile.Email, "role", string(role), "action", "set_role")
	return nil
}
