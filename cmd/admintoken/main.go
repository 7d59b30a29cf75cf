// Command admintoken prints an admin bearer token signed with ADMIN_JWT_SECRET.
//
//	go run ./cmd/admintoken -sub ops@example.com
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/nekogravitycat/campsite-booking-backend/internal/auth"
)

type Cfg struct {
	AdminJWTSecret string        `envconfig:"ADMIN_JWT_SECRET" required:"true"`
	AdminTokenTTL  time.Duration `envconfig:"ADMIN_TOKEN_TTL" default:"12h"`
}

func main() {
	subject := flag.String("sub", "admin", "subject recorded in the token")
	ttl := flag.Duration("ttl", 0, "token lifetime, overrides ADMIN_TOKEN_TTL")
	flag.Parse()

	_ = godotenv.Load()

	var cfg Cfg
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *ttl > 0 {
		cfg.AdminTokenTTL = *ttl
	}

	token, err := auth.NewJWTManager(cfg.AdminJWTSecret, cfg.AdminTokenTTL).GenerateAdminToken(*subject)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}
	fmt.Println(token)
}
