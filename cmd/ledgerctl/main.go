package main

import (
	"log/slog"
	"os"

	"github.com/SscSPs/association_ledger/internal/commands"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := commands.NewRootCommand(commands.NewApp(logger)).Execute(); err != nil {
		os.Exit(1)
	}
}
