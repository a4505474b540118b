package main

import (
	"fmt"
	"os"

	"github.com/ytmgrab/ytmgrab/internal/config"
	"github.com/ytmgrab/ytmgrab/internal/tui"
)

func main() {
	configPath := config.DefaultPath()
	settings, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(&settings, configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
