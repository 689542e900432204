package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/rsutax/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
)

func main() {
	// Try to load .env from current directory (ignore error if not found)
	_ = godotenv.Load()

	complete.Complete("rsutax", cmd.Completion())

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
