package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/BlessingGianna7/rest-pms-system/internal/users"
	"github.com/BlessingGianna7/rest-pms-system/pkg/config"
	"github.com/BlessingGianna7/rest-pms-system/pkg/db"
	"github.com/BlessingGianna7/rest-pms-system/pkg/enums"
	"github.com/BlessingGianna7/rest-pms-system/pkg/logger"
	"github.com/BlessingGianna7/rest-pms-system/pkg/security"
)

const generatedPasswordLength = 16

// seed-admin creates the administrator account, or promotes and resets an
// existing account with the same email. A password is generated and printed
// when PMS_ADMIN_PASSWORD is unset.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed-admin"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed-admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	password := strings.TrimSpace(cfg.Admin.Password)
	generated := password == ""
	if generated {
		password, err = security.GenerateTempPassword(generatedPasswordLength)
		requireResource(ctx, logg, "password generator", err)
	}
	hash, err := security.HashPassword(password, cfg.Password)
	requireResource(ctx, logg, "password hasher", err)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	user, created, err := users.NewRepository(dbClient.DB()).UpsertAdmin(ctx, users.CreateUserDTO{
		Name:         cfg.Admin.Name,
		Email:        strings.ToLower(strings.TrimSpace(cfg.Admin.Email)),
		PasswordHash: hash,
		Role:         enums.RoleAdmin,
		IsVerified:   true,
	})
	requireResource(ctx, logg, "admin upsert", err)

	ctx = logg.WithFields(ctx, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
		"created": created,
	})
	logg.Info(ctx, "admin account ready")

	if generated {
		fmt.Printf("admin password for %s: %s\n", user.Email, password)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
