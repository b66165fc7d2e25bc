// Command admin-token issues a signed admin bearer token from the configured
// signing secret. Run it on the host and pass the printed token in the
// Authorization header of admin API requests.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/lexidrill/lexidrill-api/internal/config"
	"github.com/lexidrill/lexidrill-api/internal/service/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	tokens, err := auth.NewAdminTokenService(cfg.Auth)
	if err != nil {
		log.Fatalf("failed to create token service: %v", err)
	}

	token, err := tokens.GenerateToken(context.Background())
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}

	fmt.Printf("Admin token (valid %d minutes):\n%s\n", cfg.Auth.TokenLifetimeMinutes, token)
}
