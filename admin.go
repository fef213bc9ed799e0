// admin.go - privacy-conscious admin surface over the visit log
package main

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const adminCookie = "admin_token"

// Middleware to check admin authentication
func (s *server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *server) validCredentials(username, password string) bool {
	u := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword))
	return u&p == 1
}

// Setup all admin routes
func (s *server) setupAdminRoutes(r *gin.Engine) {
	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		if !s.validCredentials(username, password) {
			log.Printf("Failed admin login attempt from %s", s.hasher.Hash(c.ClientIP()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		// Secure cookie, 24 hours
		c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", false, true)
		log.Printf("Admin login successful from %s", s.hasher.Hash(c.ClientIP()))
		c.JSON(http.StatusOK, gin.H{"message": "Logged in"})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		log.Printf("Admin logout from %s", s.hasher.Hash(c.ClientIP()))
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	})

	// Protected admin API
	api := r.Group("/admin/api")
	api.Use(s.adminAuth())

	api.GET("/stats", func(c *gin.Context) {
		if s.visits == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Visitor tracking is disabled"})
			return
		}
		stats, err := s.visits.Stats(c.Request.Context())
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	// Privacy compliance: drop visits past the retention window now.
	api.POST("/cleanup", func(c *gin.Context) {
		if s.visits == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Visitor tracking is disabled"})
			return
		}
		n, err := s.visits.Cleanup(c.Request.Context(), s.cfg.VisitRetention)
		if err != nil {
			log.Printf("Error cleaning up old visitor data: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Cleanup failed"})
			return
		}
		log.Printf("Privacy cleanup by admin from %s: removed %d records", s.hasher.Hash(c.ClientIP()), n)
		c.JSON(http.StatusOK, gin.H{"deleted": n})
	})
}
