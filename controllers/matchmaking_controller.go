package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pitchmate/pitchmate-server/middleware"
	"github.com/pitchmate/pitchmate-server/models"
	"github.com/pitchmate/pitchmate-server/services"
)

type createPostReq struct {
	ReservationID uint     `json:"reservation_id" binding:"required"`
	Content       string   `json:"content" binding:"required,min=1"`
	MaxPlayers    int      `json:"max_players"`
	Images        []string `json:"images"`
}

// POST /api/posts: turn a paid reservation into a matchmaking post.
func CreatePost(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var req createPostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	post, err := Matchmaking.CreatePost(c.Request.Context(), u.ID, req.ReservationID, req.Content, req.MaxPlayers, req.Images)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": post})
}

// GET /api/posts/:id
func GetPost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post id"})
		return
	}

	post, err := Matchmaking.GetPost(c.Request.Context(), uint(id))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": post})
}

// GET /api/posts?sport=football&search=&page=&limit=
func ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	posts, total, err := Matchmaking.ListPosts(c.Request.Context(), services.ListOptions{
		SportType: c.Query("sport"),
		Search:    c.Query("search"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  posts,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

type inviteReq struct {
	UserID uint `json:"user_id" binding:"required"`
}

// POST /api/posts/:id/invite, owner-only (middleware loads postObj).
func InvitePlayer(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)
	post := c.MustGet(middleware.CtxPost).(models.Post)

	var req inviteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	inv, err := Matchmaking.Invite(c.Request.Context(), post.ID, req.UserID, u.ID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": inv})
}

type respondReq struct {
	Decision string `json:"decision" binding:"required,oneof=accept reject"`
}

// PUT /api/posts/:id/respond: the invited candidate accepts or rejects.
func RespondInvite(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post id"})
		return
	}

	var req respondReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	inv, err := Matchmaking.Respond(c.Request.Context(), uint(id), u.ID, req.Decision == "accept")
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

// GET /api/invites: the caller's invitations.
func MyInvites(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	invites, err := Matchmaking.ListInvitesFor(c.Request.Context(), u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list invites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invites})
}

// POST /api/posts/:id/share: the owner mints a one-time share code with a
// short TTL; the code resolves to the post id until it expires.
func SharePost(c *gin.Context) {
	post := c.MustGet(middleware.CtxPost).(models.Post)

	code := uuid.NewString()
	if err := ShareCodes.Set(c.Request.Context(), "share:"+code, strconv.Itoa(int(post.ID)), 24*time.Hour); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create share code"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"code": code, "expires_in": "24h"})
}

// GET /api/posts/share/:code
func ResolveShareCode(c *gin.Context) {
	code := c.Param("code")

	val, err := ShareCodes.Get(c.Request.Context(), "share:"+code)
	if err != nil {
		if errors.Is(err, services.ErrCodeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Share code expired or unknown"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not resolve share code"})
		return
	}

	id, _ := strconv.Atoi(val)
	post, err := Matchmaking.GetPost(c.Request.Context(), uint(id))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": post})
}
