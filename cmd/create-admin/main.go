// Command create-admin inserts an admin account. When no password is given a
// random one is generated and printed once.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"placement-portal-backend/internal/config"
	"placement-portal-backend/internal/database"
)

// generateRandomString creates a random hex string of n bytes
func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal(err)
	}
	return hex.EncodeToString(bytes)
}

func main() {
	name := flag.String("name", "Administrator", "display name of the admin")
	email := flag.String("email", "", "login email of the admin (required)")
	password := flag.String("password", "", "password, generated when empty")
	flag.Parse()

	if *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db, err := database.GetMainDB(cfg)
	if err != nil {
		log.Fatalf("database failed to initialize: %v", err)
	}
	defer db.Close()

	plain := *password
	if plain == "" {
		plain = generateRandomString(8)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin, err := database.CreateAdmin(ctx, db.DB, *name, *email, plain)
	if err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}

	fmt.Println("Admin credentials generated successfully!")
	fmt.Println("======================================")
	fmt.Printf("Email:    %s\n", admin.Email)
	if *password == "" {
		fmt.Printf("Password: %s\n", plain)
	}
	fmt.Println("======================================")
}
