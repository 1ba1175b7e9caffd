package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pitchmate/pitchmate-server/utils"
)

// POST /api/uploads: post images go to the storage bucket; the returned
// URL is what createPost accepts in its images list.
func UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file received"})
		return
	}

	fileID := fmt.Sprintf("%d", time.Now().UnixNano())

	publicURL, err := utils.UploadToSupabase(fileHeader, fileHeader.Filename, fileID, "posts", "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": publicURL})
}
