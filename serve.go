package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/route"
	"github.com/Zachkp/portfolio/internal/view"
	"github.com/Zachkp/portfolio/internal/visits"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Bool("watch", false, "reload the content file when it changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, provider, renderer, err := loadSite()
	if err != nil {
		return err
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store *visits.Store
	if cfg.TrackVisits {
		store, err = visits.Open(cfg.VisitsDB)
		if err != nil {
			return err
		}
		defer store.Close()
		log.Println("Privacy: Visitor tracking enabled with hashed IP addresses")

		// Clean up old visitor data in the background.
		go func() {
			n, err := store.Cleanup(ctx, cfg.VisitRetention)
			if err != nil {
				log.Printf("Error cleaning up old visitor data: %v", err)
				return
			}
			if n > 0 {
				log.Printf("Privacy cleanup: Removed %d visitor records older than %s", n, cfg.VisitRetention)
			}
		}()
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		go func() {
			if err := provider.Watch(ctx); err != nil {
				log.Printf("Content watcher stopped: %v", err)
			}
		}()
	}

	s, err := newServer(cfg, provider, renderer, store)
	if err != nil {
		return err
	}
	srv := &http.Server{Addr: cfg.Addr(), Handler: s.routes()}

	errc := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Println("Shutting down")
	return srv.Shutdown(shutdownCtx)
}

// server holds what the HTTP handlers share.
type server struct {
	cfg        config.Config
	content    *content.Provider
	renderer   *view.Renderer
	visits     *visits.Store
	hasher     *visits.Hasher
	adminToken string
}

// newServer builds the handlers. store may be nil, which disables visitor
// tracking and the admin stats.
func newServer(cfg config.Config, provider *content.Provider, renderer *view.Renderer, store *visits.Store) (*server, error) {
	hasher, err := visits.NewHasher()
	if err != nil {
		return nil, err
	}
	token, err := visits.Token()
	if err != nil {
		return nil, err
	}
	if cfg.DefaultCredentials() && gin.Mode() == gin.DebugMode {
		log.Println("WARNING: Using default admin credentials. Set ADMIN_USERNAME and ADMIN_PASSWORD.")
	}
	return &server{
		cfg:        cfg,
		content:    provider,
		renderer:   renderer,
		visits:     store,
		hasher:     hasher,
		adminToken: token,
	}, nil
}

func (s *server) routes() *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(s.renderer.Template())

	r.Static("/static", s.cfg.StaticDir)
	r.Static("/images", s.cfg.ImagesDir)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	pages := r.Group("/")
	if s.visits != nil {
		pages.Use(s.visitorTracking())
	}
	for _, rt := range route.All {
		pages.GET(rt.Path(), s.page(rt, http.StatusOK))
	}
	r.NoRoute(s.visitorTracking(), s.page(route.NotFound, http.StatusNotFound))

	s.setupAdminRoutes(r)
	return r
}

// page renders the full layout with view rt mounted.
func (s *server) page(rt route.Route, status int) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := s.renderer.Data(rt, s.content.Site(), s.cfg.WASM)
		if err != nil {
			log.Printf("Error rendering %s: %v", rt, err)
			c.String(http.StatusInternalServerError, "Internal Server Error")
			return
		}
		c.HTML(status, "layout", data)
	}
}

// visitorTracking records page views with hashed client addresses. Assets,
// admin pages and clients sending Do Not Track are skipped.
func (s *server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if s.visits == nil || c.Request.Method != http.MethodGet || c.GetHeader("DNT") == "1" {
			return
		}
		path := c.Request.URL.Path
		for _, prefix := range []string{"/static/", "/images/", "/admin/", "/favicon"} {
			if strings.HasPrefix(path, prefix) {
				return
			}
		}

		v := visits.Visit{
			HashedIP:  s.hasher.Hash(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Route:     route.Lookup(path).String(),
		}
		if err := s.visits.Record(context.WithoutCancel(c.Request.Context()), v); err != nil {
			log.Printf("Error recording visitor: %v", err)
		}
	}
}
