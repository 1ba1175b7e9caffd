package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pitchmate/pitchmate-server/config"
	"github.com/pitchmate/pitchmate-server/middleware"
	"github.com/pitchmate/pitchmate-server/models"
)

type createReservationReq struct {
	FieldID   uint      `json:"field_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// POST /api/reservations
func CreateReservation(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var req createReservationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}
	if !req.EndTime.After(req.StartTime) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "end_time must be after start_time"})
		return
	}

	var field models.Field
	if err := config.DB.First(&field, req.FieldID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Field not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load field"})
		return
	}

	// reject double-booking of the same field window
	var overlap int64
	config.DB.Model(&models.Reservation{}).
		Where("field_id = ? AND status <> 'cancelled'", req.FieldID).
		Where("start_time < ? AND end_time > ?", req.EndTime, req.StartTime).
		Count(&overlap)
	if overlap > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Field is already booked for that window"})
		return
	}

	r := models.Reservation{
		UserID:    u.ID,
		FieldID:   req.FieldID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    "pending",
	}
	if err := config.DB.Create(&r).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create reservation"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": r})
}

type payDepositReq struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// POST /api/reservations/:id/deposit records the deposit the billing
// collaborator collected; matchmaking posts require a non-zero deposit.
func PayDeposit(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid reservation id"})
		return
	}

	var req payDepositReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	var r models.Reservation
	if err := config.DB.First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Reservation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load reservation"})
		return
	}
	if r.UserID != u.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not your reservation"})
		return
	}

	if err := config.DB.Model(&r).Updates(map[string]interface{}{
		"deposit_amount": req.Amount,
		"status":         "confirmed",
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not record deposit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": r})
}

// GET /api/reservations/my
func MyReservations(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var reservations []models.Reservation
	if err := config.DB.
		Preload("Field").
		Preload("Field.Facility").
		Where("user_id = ?", u.ID).
		Order("start_time DESC").
		Find(&reservations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list reservations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reservations})
}
