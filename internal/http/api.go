package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blog-server/internal/auth"
	"blog-server/internal/domain"
	"blog-server/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users            service.UserService
	posts            service.PostService
	exports          service.ExportService
	tokens           *auth.TokenIssuer
	enforceOwnership bool
	log              logrus.FieldLogger
}

func NewHandler(users service.UserService, posts service.PostService, exports service.ExportService, tokens *auth.TokenIssuer, enforceOwnership bool, log logrus.FieldLogger) *Handler {
	return &Handler{
		users:            users,
		posts:            posts,
		exports:          exports,
		tokens:           tokens,
		enforceOwnership: enforceOwnership,
		log:              log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.log), corsMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello World!")
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	user := router.Group("/user")
	{
		user.POST("/register", h.register)
		user.POST("/login", h.login)
		user.GET("/getUser/:id", h.getUser)
		user.GET("/me", h.requireAuth(), h.me)
	}

	blog := router.Group("/blog")
	{
		blog.GET("/blogs", h.listBlogs)
		blog.GET("/getBlog/:id", h.listAuthorBlogs)
	}

	owned := router.Group("/blog")
	if h.enforceOwnership {
		owned.Use(h.requireAuth())
	}
	{
		owned.POST("/postBlog", h.postBlog)
		owned.PUT("/editBlog/:blogId", h.editBlog)
		owned.DELETE("/deleteBlog/:blogId", h.deleteBlog)
		owned.POST("/export/:id", h.exportBlogs)
		owned.GET("/exports/:id", h.listExports)
		owned.DELETE("/exports/:id", h.purgeExports)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"client":  c.ClientIP(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request")
	}
}

type userResponse struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

type postResponse struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	CreatedAt string `json:"createdAt"`
}

func userToResponse(user domain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func postToResponse(post domain.Post) postResponse {
	return postResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Author:    post.Author,
		CreatedAt: post.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func postsToResponse(posts []domain.Post) []postResponse {
	resp := make([]postResponse, len(posts))
	for i := range posts {
		resp[i] = postToResponse(posts[i])
	}
	return resp
}
