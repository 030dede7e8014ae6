package main

import (
	"os"

	"github.com/andyle182810/webber/cmd/webber/cmd"
	_ "github.com/joho/godotenv/autoload"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	os.Exit(cmd.Execute(version, buildTime))
}
