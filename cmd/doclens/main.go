package main

import (
	"github.com/joho/godotenv"

	"doclens/internal/cli"
)

func main() {
	_ = godotenv.Load()
	cli.Execute()
}
