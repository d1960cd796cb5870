package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blog-server/internal/domain"
	"blog-server/internal/service"
)

const blogNotFound = "Blog not found"

type postBlogRequest struct {
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Author    string          `json:"author"`
	CreatedAt json.RawMessage `json:"createdAt"`
}

type editBlogRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type exportResponse struct {
	Location string `json:"location"`
	URL      string `json:"url,omitempty"`
	Posts    int    `json:"posts"`
}

type exportObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"lastModified,omitempty"`
}

func (h *Handler) postBlog(c *gin.Context) {
	var req postBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errBadBody, blogNotFound)
		return
	}

	createdAt, err := parseTimestamp(req.CreatedAt)
	if err != nil {
		verr := &domain.ValidationError{}
		verr.Add("createdAt", "Invalid date")
		h.respondError(c, verr, blogNotFound)
		return
	}

	if caller := callerID(c); h.enforceOwnership {
		if req.Author == "" {
			req.Author = caller
		} else if req.Author != caller {
			h.respondError(c, domain.ErrForbidden, blogNotFound)
			return
		}
	}

	post, err := h.posts.Create(c.Request.Context(), service.CreatePostInput{
		Title:     req.Title,
		Content:   req.Content,
		Author:    req.Author,
		CreatedAt: createdAt,
	})
	if err != nil {
		h.respondError(c, err, blogNotFound)
		return
	}

	c.JSON(http.StatusCreated, postToResponse(*post))
}

func (h *Handler) listBlogs(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, blogNotFound)
		return
	}
	c.JSON(http.StatusOK, postsToResponse(posts))
}

// listAuthorBlogs answers 200 with an empty array when the author has no posts.
func (h *Handler) listAuthorBlogs(c *gin.Context) {
	posts, err := h.posts.ListByAuthor(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, blogNotFound)
		return
	}
	c.JSON(http.StatusOK, postsToResponse(posts))
}

func (h *Handler) editBlog(c *gin.Context) {
	// a missing body is an empty edit, so an unknown id still reports 404
	var req editBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(c, errBadBody, blogNotFound)
		return
	}

	var (
		post *domain.Post
		err  error
	)
	if h.enforceOwnership {
		post, err = h.posts.UpdateOwned(c.Request.Context(), callerID(c), c.Param("blogId"), req.Title, req.Content)
	} else {
		post, err = h.posts.Update(c.Request.Context(), c.Param("blogId"), req.Title, req.Content)
	}
	if err != nil {
		h.respondError(c, err, blogNotFound)
		return
	}

	c.JSON(http.StatusOK, postToResponse(*post))
}

func (h *Handler) deleteBlog(c *gin.Context) {
	var err error
	if h.enforceOwnership {
		err = h.posts.DeleteOwned(c.Request.Context(), callerID(c), c.Param("blogId"))
	} else {
		err = h.posts.Delete(c.Request.Context(), c.Param("blogId"))
	}
	if err != nil {
		h.respondError(c, err, blogNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted successfully"})
}

// authorParam returns the author id for export routes, rejecting foreign ids in enforced mode.
func (h *Handler) authorParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if h.enforceOwnership && id != callerID(c) {
		h.respondError(c, domain.ErrForbidden, blogNotFound)
		return "", false
	}
	return id, true
}

func (h *Handler) exportBlogs(c *gin.Context) {
	author, ok := h.authorParam(c)
	if !ok {
		return
	}

	export, err := h.exports.Export(c.Request.Context(), author)
	if err != nil {
		h.respondError(c, err, blogNotFound)
		return
	}

	c.JSON(http.StatusCreated, exportResponse{
		Location: export.Location,
		URL:      export.URL,
		Posts:    export.Posts,
	})
}

func (h *Handler) listExports(c *gin.Context) {
	author, ok := h.authorParam(c)
	if !ok {
		return
	}

	objects, err := h.exports.List(c.Request.Context(), author)
	if err != nil {
		h.respondError(c, err, blogNotFound)
		return
	}

	resp := make([]exportObjectResponse, len(objects))
	for i, obj := range objects {
		resp[i] = exportObjectResponse{Key: obj.Key, Size: obj.Size}
		if obj.LastModified != nil && !obj.LastModified.IsZero() {
			v := obj.LastModified.Format(time.RFC3339)
			resp[i].LastModified = &v
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) purgeExports(c *gin.Context) {
	author, ok := h.authorParam(c)
	if !ok {
		return
	}

	if err := h.exports.Purge(c.Request.Context(), author); err != nil {
		h.respondError(c, err, blogNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exports deleted successfully"})
}
