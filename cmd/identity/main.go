package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/ridesafe/identity/internal/identity/app"
)

const usage = `usage:
  identity                     run the service
  identity promote <identity>  make the account with this email or username an administrator`

func main() {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	args := os.Args[1:]
	switch {
	case len(args) == 0:
		if err := application.Run(); err != nil {
			log.Fatalf("application error: %v", err)
		}
	case args[0] == "promote" && len(args) == 2:
		if err := application.Promote(context.Background(), args[1]); err != nil {
			log.Fatalf("promote failed: %v", err)
		}
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}
