// Command admintoken mints a bearer token for the question create/delete routes.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/auth/jwt"
)

func main() {
	subject := flag.String("subject", "admin", "Token subject recorded in the sub claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	issuer := flag.String("issuer", "", "Issuer claim; defaults to APP_NAME or trivia-api")
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}

	secret := os.Getenv("ADMIN_JWT_SECRET")
	if secret == "" {
		log.Fatal().Msg("ADMIN_JWT_SECRET environment variable is required")
	}
	if *issuer == "" {
		*issuer = os.Getenv("APP_NAME")
	}

	tokens := jwt.NewManager(jwt.TokenConfig{Secret: []byte(secret), TTL: *ttl, Issuer: *issuer})
	token, err := tokens.Generate(*subject, jwt.RoleAdmin)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign token")
	}
	fmt.Println(token)
}
