// cmd/seedadmin/main.go — creates or resets the demo admin account in the
// configured store backend. Usage: go run ./cmd/seedadmin
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"tillpoint/internal/config"
	"tillpoint/internal/infra"
	"tillpoint/internal/model"
	"tillpoint/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	username := "admin"
	password := "1234"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}

	var kv store.KV
	switch cfg.StoreBackend {
	case "redis":
		rdb, err := infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		kv = store.NewRedisStore(rdb)
	default:
		kv, err = store.NewFileStore(cfg.DataDir)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open data directory")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}

	ctx := context.Background()
	state := store.NewState(kv)
	state.Load(ctx)

	state.Update(func(d *store.Data) []string {
		for i := range d.Users {
			if d.Users[i].Username == username {
				d.Users[i].PasswordHash = string(hash)
				d.Users[i].Role = model.RoleAdmin
				d.Users[i].Active = true
				return []string{store.KeyUsers}
			}
		}
		d.Users = append(d.Users, model.User{
			ID:           uuid.NewString(),
			Name:         "Admin",
			Username:     username,
			PasswordHash: string(hash),
			Role:         model.RoleAdmin,
			Active:       true,
			CreatedAt:    time.Now(),
		})
		return []string{store.KeyUsers}
	})

	if err := state.Flush(ctx); err != nil {
		log.Fatal().Err(err).Msg("flush failed")
	}
	fmt.Printf("user %q created/updated with password %q\n", username, password)
}
