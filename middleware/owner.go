package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pitchmate/pitchmate-server/config"
	"github.com/pitchmate/pitchmate-server/models"
)

// CheckPostOwner loads the post into the context and verifies the caller
// owns it. Owner-only actions (invite, share) sit behind this.
func CheckPostOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := c.MustGet(CtxUser).(models.User)

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid post id"})
			return
		}

		var post models.Post
		if e := config.DB.First(&post, id).Error; e != nil {
			if errors.Is(e, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Post not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not load post"})
			return
		}

		if post.UserID != u.ID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You do not own this post"})
			return
		}

		c.Set(CtxPost, post)
		c.Next()
	}
}

// CheckFacilityOwner guards field management under a facility.
func CheckFacilityOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := c.MustGet(CtxUser).(models.User)

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid facility id"})
			return
		}

		var fac models.Facility
		if e := config.DB.First(&fac, id).Error; e != nil {
			if errors.Is(e, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Facility not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not load facility"})
			return
		}

		if fac.OwnerID != u.ID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You do not own this facility"})
			return
		}

		c.Set("facilityObj", fac)
		c.Next()
	}
}
