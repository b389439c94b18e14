package main

import (
	"github.com/joho/godotenv"

	"github.com/misiekp/hederactl/cmd"
)

func main() {
	// Operator credentials may live in a .env next to the invocation.
	_ = godotenv.Load()
	cmd.Execute()
}
