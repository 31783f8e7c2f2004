package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"quickai/internal/domain"
	"quickai/internal/identity"
)

func main() {
	_ = godotenv.Load()

	var (
		subFlag     string
		premiumFlag bool
		ttlFlag     time.Duration
	)
	flag.StringVar(&subFlag, "sub", "", "subject (user ID) to embed in the token")
	flag.BoolVar(&premiumFlag, "premium", false, "mark the token as premium")
	flag.DurationVar(&ttlFlag, "ttl", time.Hour, "token lifetime")
	flag.Parse()

	sub := strings.TrimSpace(subFlag)
	if sub == "" {
		fmt.Fprintln(os.Stderr, "-sub is required")
		os.Exit(1)
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}

	token, err := identity.Sign(secret, os.Getenv("AUTH_ISSUER"), domain.Identity(sub), premiumFlag, ttlFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
