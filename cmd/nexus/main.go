package main

import (
	"log"

	"github.com/ravetok/nexus/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ nexus failed to start: %v", err)
	}
}
