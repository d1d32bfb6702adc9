package main

import (
	"github.com/joho/godotenv"

	"github.com/derickschaefer/franq/cmd"
)

func main() {
	// Optional .env for FRANQ_* overrides; absence is not an error.
	_ = godotenv.Load()
	cmd.Execute()
}
