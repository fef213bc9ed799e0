package main

import (
	"fmt"
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/view"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Zach's portfolio site",
	Long: `Serves the portfolio single-page site: every view is pre-rendered on the
server and the WebAssembly engine takes over navigation once loaded.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSite reads the configuration and the content it points at.
func loadSite() (config.Config, *content.Provider, *view.Renderer, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	provider, err := content.NewProvider(cfg.ContentPath)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("loading content: %w", err)
	}
	renderer, err := view.New()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	if cfg.ContentPath != "" {
		log.Printf("Content loaded from %s", cfg.ContentPath)
	}
	return cfg, provider, renderer, nil
}
