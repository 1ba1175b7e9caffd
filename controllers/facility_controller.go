package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pitchmate/pitchmate-server/config"
	"github.com/pitchmate/pitchmate-server/middleware"
	"github.com/pitchmate/pitchmate-server/models"
)

type createFacilityReq struct {
	Name    string `json:"name" binding:"required,min=1"`
	Address string `json:"address"`
}

// POST /api/facilities
func CreateFacility(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var req createFacilityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	fac := models.Facility{
		OwnerID: u.ID,
		Name:    req.Name,
		Address: req.Address,
	}
	if err := config.DB.Create(&fac).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create facility"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": fac})
}

type addFieldReq struct {
	Name         string  `json:"name" binding:"required,min=1"`
	SportType    string  `json:"sport_type" binding:"required,min=1"`
	PricePerHour float64 `json:"price_per_hour"`
}

// POST /api/facilities/:id/fields, owner-only (middleware loads facilityObj).
func AddField(c *gin.Context) {
	fac := c.MustGet("facilityObj").(models.Facility)

	var req addFieldReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	field := models.Field{
		FacilityID:   fac.ID,
		Name:         req.Name,
		SportType:    strings.ToLower(req.SportType),
		PricePerHour: req.PricePerHour,
	}
	if err := config.DB.Create(&field).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create field"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": field})
}

// GET /api/fields?sport=football
func ListFields(c *gin.Context) {
	query := config.DB.Model(&models.Field{}).Preload("Facility")

	if sport := c.Query("sport"); sport != "" {
		query = query.Where("sport_type = ?", strings.ToLower(sport))
	}

	var fields []models.Field
	if err := query.Order("id ASC").Find(&fields).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list fields"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": fields})
}
