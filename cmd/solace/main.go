package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/solace-ai/solace/common/version"
	"github.com/solace-ai/solace/internal/solace/app"
	"github.com/solace-ai/solace/internal/solace/config"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file (optional)")
	flag.Parse()

	fmt.Printf("Solace Counselling Backend\n")
	fmt.Printf("Version: %s\n", version.Version)
	fmt.Printf("Commit: %s\n", version.GitCommit)
	fmt.Printf("Build Time: %s\n", version.BuildTime)
	fmt.Println()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	solace, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize Solace: %v\n", err)
		os.Exit(1)
	}
	defer solace.Stop()

	if err := solace.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running Solace: %v\n", err)
		os.Exit(1)
	}
}
