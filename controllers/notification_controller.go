package controllers

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pitchmate/pitchmate-server/config"
	"github.com/pitchmate/pitchmate-server/middleware"
	"github.com/pitchmate/pitchmate-server/models"
)

// Read receipts are a deployment decision, not a per-request schema
// probe: the column always exists, the feature switch decides whether it
// is exposed.
func readReceiptsEnabled() bool {
	return os.Getenv("NOTIF_READ_RECEIPTS") != "false"
}

// GET /api/notifications
func MyNotifications(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var notifs []models.Notification
	if err := config.DB.
		Where("recipient_id = ?", u.ID).
		Order("created_at DESC").
		Limit(100).
		Find(&notifs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": notifs, "read_receipts": readReceiptsEnabled()})
}

// PUT /api/notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
	if !readReceiptsEnabled() {
		c.JSON(http.StatusNotFound, gin.H{"message": "Read receipts are disabled"})
		return
	}

	u := c.MustGet(middleware.CtxUser).(models.User)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid notification id"})
		return
	}

	res := config.DB.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, u.ID).
		Update("read", true)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update notification"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
