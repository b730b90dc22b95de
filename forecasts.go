package main

import (
	"net/http"
	"strconv"

	"finsight/models"

	"github.com/gin-gonic/gin"
)

// Forecast rows are written by the external projection service; the
// API only reads and deletes them.

func latestForecastHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var forecast models.Forecast
	err := db.Where("user_id = ?", user.ID).Order("generated_at desc").First(&forecast).Error
	if err != nil {
		fail(c, http.StatusNotFound, "no forecast found for this user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "forecast": forecast})
}

func forecastHistoryHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	var forecasts []models.Forecast
	if err := db.Where("user_id = ?", user.ID).Order("generated_at desc").Limit(limit).Find(&forecasts).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch forecast history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(forecasts), "forecasts": forecasts})
}

func deleteForecastHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	res := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).Delete(&models.Forecast{})
	if res.Error != nil {
		fail(c, http.StatusInternalServerError, "failed to delete forecast")
		return
	}
	if res.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "forecast not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "forecast deleted"})
}
