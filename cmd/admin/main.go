// Package main provides admin management utilities for Guild Apply.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"guildapply/internal/bootstrap"
	"guildapply/internal/config"
	"guildapply/internal/database"
	"guildapply/internal/models"
	"guildapply/internal/repository"
	"guildapply/internal/validation"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin grant <discord_id> <username>   - Add user to the admin set")
	fmt.Println("  go run ./cmd/admin revoke <discord_id>             - Remove user from the admin set")
	fmt.Println("  go run ./cmd/admin list                            - List all admins")
	fmt.Println("  go run ./cmd/admin list-moderators                 - List all moderators")
	os.Exit(1)
}

// Manages the admin set directly in the store, e.g. to create the first admin.
func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	admins := repository.NewRoleRepository(db, models.RoleAdmin)

	switch os.Args[1] {
	case "grant":
		if len(os.Args) < 4 {
			usage()
		}
		grant(ctx, admins, os.Args[2], strings.Join(os.Args[3:], " "))

	case "revoke":
		if len(os.Args) < 3 {
			usage()
		}
		revoke(ctx, admins, os.Args[2])

	case "list":
		list(ctx, admins)

	case "list-moderators":
		list(ctx, repository.NewRoleRepository(db, models.RoleModerator))

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func grant(ctx context.Context, admins repository.RoleRepository, discordID, username string) {
	if err := validation.ValidateExternalID(discordID); err != nil {
		log.Fatalf("Invalid Discord ID: %v", err)
	}
	if err := validation.ValidateDisplayName(username); err != nil {
		log.Fatalf("Invalid username: %v", err)
	}

	err := admins.Add(ctx, &models.RoleAssignment{
		ExternalID:         discordID,
		DisplayName:        strings.TrimSpace(username),
		AddedByExternalID:  bootstrap.SystemActor,
		AddedByDisplayName: bootstrap.SystemActor,
	})
	if errors.Is(err, models.ErrAlreadyExists) {
		fmt.Printf("User %s (%s) is already an admin\n", username, discordID)
		return
	}
	if err != nil {
		log.Fatalf("Failed to grant admin: %v", err)
	}

	fmt.Printf("✅ Successfully granted admin to %s (%s)\n", username, discordID)
}

func revoke(ctx context.Context, admins repository.RoleRepository, discordID string) {
	removed, err := admins.Remove(ctx, discordID)
	if errors.Is(err, models.ErrNotFound) {
		fmt.Printf("User %s is not an admin\n", discordID)
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Failed to revoke admin: %v", err)
	}

	fmt.Printf("✅ Successfully revoked admin from %s (%s)\n", removed.DisplayName, removed.ExternalID)
}

func list(ctx context.Context, repo repository.RoleRepository) {
	members, err := repo.List(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch %ss: %v", repo.Kind(), err)
	}

	if len(members) == 0 {
		fmt.Printf("No %ss found in the system\n", repo.Kind())
		return
	}

	fmt.Printf("\n📋 Current %ss:\n", repo.Kind().Label())
	fmt.Println("─────────────────────────────────────")
	for _, m := range members {
		fmt.Printf("Discord ID: %s | Username: %s | Added by: %s | Since: %s\n",
			m.ExternalID, m.DisplayName, m.AddedByDisplayName, m.CreatedAt.Format("2006-01-02"))
	}
	fmt.Println("─────────────────────────────────────")
}
