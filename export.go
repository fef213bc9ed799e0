package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/route"
	"github.com/Zachkp/portfolio/internal/view"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every page as static HTML",
	Long: `Renders each view into its own index.html (plus 404.html) so the site can
be hosted without the server. Static assets are not copied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		cfg, provider, renderer, err := loadSite()
		if err != nil {
			return err
		}
		files, err := exportSite(out, renderer, provider.Site(), cfg.WASM)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d pages to %s\n", len(files), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("out", "dist", "output directory")
	rootCmd.AddCommand(exportCmd)
}

// exportFile is where route rt is written under the output directory.
func exportFile(rt route.Route) string {
	switch rt {
	case route.NotFound:
		return "404.html"
	case route.Home:
		return "index.html"
	}
	return filepath.Join(rt.Path()[1:], "index.html")
}

// exportSite writes every page under dir and returns the written paths.
func exportSite(dir string, renderer *view.Renderer, site *content.Site, wasm bool) ([]string, error) {
	var written []string
	for _, rt := range append([]route.Route{route.NotFound}, route.All...) {
		page, err := renderer.Page(rt, site, wasm)
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, exportFile(rt))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
