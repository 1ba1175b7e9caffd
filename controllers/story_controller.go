package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pitchmate/pitchmate-server/config"
	"github.com/pitchmate/pitchmate-server/middleware"
	"github.com/pitchmate/pitchmate-server/models"
)

func storyTTL() time.Duration {
	if h, err := strconv.Atoi(os.Getenv("STORY_TTL_HOURS")); err == nil && h > 0 {
		return time.Duration(h) * time.Hour
	}
	return 24 * time.Hour
}

func mediaDir() string {
	if d := os.Getenv("MEDIA_DIR"); d != "" {
		return d
	}
	return "./media"
}

// POST /api/stories, multipart: caption + optional media file. Media is
// saved on the local volume; the sweeper relocates it on archival.
func CreateStory(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	caption := c.PostForm("caption")

	var mediaPath *string
	if fh, err := c.FormFile("media"); err == nil {
		rel := filepath.Join("stories", uuid.NewString()+filepath.Ext(fh.Filename))
		abs := filepath.Join(mediaDir(), rel)
		if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not store media"})
			return
		}
		if err := c.SaveUploadedFile(fh, abs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not store media"})
			return
		}
		mediaPath = &rel
	}

	now := time.Now()
	story := models.Story{
		UserID:    u.ID,
		Caption:   caption,
		MediaPath: mediaPath,
		Status:    models.StoryActive,
		CreatedAt: now,
		ExpiresAt: now.Add(storyTTL()),
	}
	if err := config.DB.Create(&story).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create story"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": story})
}

// GET /api/stories: active, unexpired stories, newest first.
func ListActiveStories(c *gin.Context) {
	var stories []models.Story
	if err := config.DB.
		Where("status = ? AND expires_at > ?", models.StoryActive, time.Now()).
		Order("created_at DESC").
		Find(&stories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list stories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stories})
}

// POST /api/stories/:id/view: view counter, the only post-creation
// mutation outside the sweeper.
func ViewStory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid story id"})
		return
	}

	res := config.DB.Model(&models.Story{}).
		Where("id = ? AND status = ?", id, models.StoryActive).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not record view"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Story not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// GET /api/stories/archive: the caller's archived stories.
func MyArchivedStories(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var stories []models.Story
	if err := config.DB.
		Where("user_id = ? AND status = ?", u.ID, models.StoryArchived).
		Order("created_at DESC").
		Find(&stories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list archive"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stories})
}
