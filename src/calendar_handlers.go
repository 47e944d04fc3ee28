package main

import (
	"log"
	"net/http"

	"portal/src/config"
	"portal/src/lib"

	"github.com/gin-gonic/gin"
)

func calendarHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/calendar/events", func(ctx *gin.Context) {
			var query struct {
				Max int64 `form:"max,default=20" binding:"omitempty,min=1,max=100"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			events, err := lib.GAPIListUpcomingEvents(config.GetCalendarId(), query.Max, nil)
			if err != nil {
				log.Printf("Error fetching calendar events: %s\n", err.Error())
				ctx.JSON(http.StatusBadGateway, gin.H{"error": "calendar unavailable"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events})
		})
	return g
}
