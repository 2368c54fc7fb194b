package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "postboost-backend/internal/common/errors"
	"postboost-backend/internal/common/middleware"
	"postboost-backend/internal/features/post/service"
)

type PostHandler struct {
	service service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// RegisterRoutes mounts the feed endpoints on the authed group and the demo
// seeding endpoint on the admin group.
func (h *PostHandler) RegisterRoutes(authed, admin *gin.RouterGroup) {
	posts := authed.Group("/posts")
	{
		posts.GET("", h.list)
		posts.POST("", h.create)
		posts.GET("/:id", h.getByID)
		posts.POST("/:id/react", h.react)
		posts.POST("/:id/share", h.share)
	}

	admin.POST("/posts/demo", h.seedDemo)
}

type createPostRequest struct {
	Body string `json:"body" binding:"required"`
}

type reactRequest struct {
	Kind string `json:"kind" binding:"required" enums:"like,heart,rocket"`
}

type seedDemoRequest struct {
	Count int `json:"count" binding:"required,min=1,max=20"`
}

// @Summary List posts
// @Description Returns the feed, newest first
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Security TelegramInitData
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} models.Post
// @Router /posts [get]
func (h *PostHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	posts, err := h.service.ListPosts(c.Request.Context(), limit, offset)
	if err != nil {
		middleware.AbortWithAppError(c, mapPostError(err))
		return
	}
	c.JSON(http.StatusOK, posts)
}

// @Summary Create a post
// @Description Creates a text or link post authored by the caller
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security TelegramInitData
// @Param input body createPostRequest true "Post body"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (h *PostHandler) create(c *gin.Context) {
	account, ok := middleware.GetAccount(c)
	if !ok {
		middleware.AbortWithAppError(c, apperrors.NewUnauthorizedError("credentials required"))
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithAppError(c, apperrors.New(apperrors.ErrCodeBadRequest, err.Error()))
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), account.ID, req.Body)
	if err != nil {
		middleware.AbortWithAppError(c, mapPostError(err))
		return
	}
	c.JSON(http.StatusCreated, post)
}

// @Summary Get one post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Security TelegramInitData
// @Param id path string true "Post id"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (h *PostHandler) getByID(c *gin.Context) {
	post, err := h.service.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.AbortWithAppError(c, mapPostError(err))
		return
	}
	c.JSON(http.StatusOK, post)
}

// @Summary React to a post
// @Description Bumps one engagement counter: like, heart or rocket
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security TelegramInitData
// @Param id path string true "Post id"
// @Param input body reactRequest true "Reaction kind"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/react [post]
func (h *PostHandler) react(c *gin.Context) {
	var req reactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithAppError(c, apperrors.New(apperrors.ErrCodeBadRequest, err.Error()))
		return
	}

	if err := h.service.React(c.Request.Context(), c.Param("id"), req.Kind); err != nil {
		middleware.AbortWithAppError(c, mapPostError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Share a post
// @Description Records one share of the post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Security TelegramInitData
// @Param id path string true "Post id"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/share [post]
func (h *PostHandler) share(c *gin.Context) {
	if err := h.service.Share(c.Request.Context(), c.Param("id")); err != nil {
		middleware.AbortWithAppError(c, mapPostError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Seed demo posts
// @Description Generates demo post bodies through the text-generation boundary and publishes them as the caller
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body seedDemoRequest true "How many posts to create"
// @Success 201 {array} models.Post
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/posts/demo [post]
func (h *PostHandler) seedDemo(c *gin.Context) {
	account, ok := middleware.GetAccount(c)
	if !ok {
		middleware.AbortWithAppError(c, apperrors.NewUnauthorizedError("credentials required"))
		return
	}

	var req seedDemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithAppError(c, apperrors.New(apperrors.ErrCodeBadRequest, err.Error()))
		return
	}

	posts, err := h.service.SeedDemoPosts(c.Request.Context(), account.ID, req.Count)
	if err != nil {
		middleware.AbortWithAppError(c, mapPostError(err))
		return
	}
	c.JSON(http.StatusCreated, posts)
}

func mapPostError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		return apperrors.New(apperrors.ErrCodePostNotFound, "Post not found")
	case errors.Is(err, service.ErrInvalidReaction):
		return apperrors.New(apperrors.ErrCodeInvalidReaction, "Unknown reaction kind")
	case errors.Is(err, service.ErrEmptyBody):
		return apperrors.New(apperrors.ErrCodeValidation, "Post body cannot be empty")
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Post operation failed")
	}
}
