package handlers

import (
	"net/http"
	"strconv"

	"busbook/services/catalog"
	"busbook/utils"

	"github.com/gin-gonic/gin"
)

// SearchCitiesHandler serves fuzzy city lookup for autocomplete.
func SearchCitiesHandler(catalogSvc catalog.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

		cities, err := catalogSvc.SearchCities(c.Request.Context(), query, limit)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cities": cities})
	}
}

// PopularCitiesHandler serves the curated popular city list.
func PopularCitiesHandler(catalogSvc catalog.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cities, err := catalogSvc.GetPopularCities(c.Request.Context())
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cities": cities})
	}
}

// SearchBusesHandler finds bookable schedules between two cities on a date.
func SearchBusesHandler(catalogSvc catalog.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		buses, err := catalogSvc.SearchBuses(c.Request.Context(),
			c.Query("from"), c.Query("to"), c.Query("date"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"buses": buses, "count": len(buses)})
	}
}

// SeatMapHandler serves the seat map for a schedule.
func SeatMapHandler(catalogSvc catalog.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		seatMap, err := catalogSvc.GetSeatMap(c.Request.Context(), c.Param("scheduleID"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, seatMap)
	}
}

// SchedulePointsHandler serves boarding and dropping points for a schedule.
func SchedulePointsHandler(catalogSvc catalog.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		boarding, dropping, err := catalogSvc.GetSchedulePoints(c.Request.Context(), c.Param("scheduleID"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"boarding_points": boarding,
			"dropping_points": dropping,
		})
	}
}
