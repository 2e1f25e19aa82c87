// Command-line tool to clean the database by dropping all tables in the public schema.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"placement-portal-backend/internal/config"
	"placement-portal-backend/internal/database"
)

const dropAllTables = `
DO $$
	DECLARE
		r RECORD;
	BEGIN
		FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
			EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
		END LOOP;
	END $$;
`

func main() {
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	if !*yes {
		fmt.Println("WARNING: This command will DROP ALL TABLES in the 'public' schema of your database.")
		fmt.Print("This action is irreversible. Do you want to continue? (yes/no): ")

		input, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			log.Fatalf("Failed to read input: %v", err)
		}
		if strings.TrimSpace(strings.ToLower(input)) != "yes" {
			fmt.Println("Operation cancelled.")
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// GetMainDB migrates on connect; the drop below runs after that.
	db, err := database.GetMainDB(cfg)
	if err != nil {
		log.Fatalf("Database failed to initialize: %v", err)
	}
	defer db.Close()

	if err := db.Exec(dropAllTables).Error; err != nil {
		log.Fatalf("failed to execute drop command: %v", err)
	}
	fmt.Println("All tables dropped successfully.")
}
