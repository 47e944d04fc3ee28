package main

import (
	"log"
	"net/http"
	"time"

	"portal/src/config"
	"portal/src/lib"
	"portal/src/middlewares"
	"portal/src/notify"
	"portal/src/types"

	"github.com/gin-gonic/gin"
)

func notificationHandlers(g *gin.RouterGroup, m *notify.Manager, rec *notify.Reconciler) *gin.RouterGroup {
	g.
		GET("/notifications", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{
				"data":     m.Visible(),
				"unread":   m.UnreadCount(),
				"settings": m.Settings(),
			})
		}).
		POST("/notifications", middlewares.AdminMiddleware, func(ctx *gin.Context) {
			var body types.CreateNotificationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			priority := notify.Priority(body.Priority)
			if priority == "" {
				priority = notify.PriorityMedium
			}
			n, added := m.Add(notify.Candidate{
				Title:     body.Title,
				Message:   body.Message,
				Type:      notify.NotificationType(body.Type),
				Priority:  priority,
				ActionURL: body.ActionURL,
			})
			if !added {
				ctx.JSON(http.StatusOK, gin.H{"added": false})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": n})
		}).
		PATCH("/notifications/:id/read", func(ctx *gin.Context) {
			var params struct {
				ID string `uri:"id" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			m.MarkRead(params.ID)
			ctx.Status(http.StatusNoContent)
		}).
		POST("/notifications/read-all", func(ctx *gin.Context) {
			marked := m.MarkAllRead()
			ctx.JSON(http.StatusOK, gin.H{"marked": marked})
		}).
		DELETE("/notifications/:id", func(ctx *gin.Context) {
			var params struct {
				ID string `uri:"id" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			m.Remove(params.ID)
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/notifications", middlewares.AdminMiddleware, func(ctx *gin.Context) {
			m.Clear()
			ctx.Status(http.StatusNoContent)
		}).
		GET("/notifications/settings", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"data": m.Settings()})
		}).
		PUT("/notifications/settings", func(ctx *gin.Context) {
			var body types.UpdateSettingsRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			s := notify.Settings{
				EventNotifications:    *body.EventNotifications,
				PushNotifications:     *body.PushNotifications,
				ReminderTime:          body.ReminderTime,
				WelcomeMessageEnabled: *body.WelcomeMessageEnabled,
			}
			m.UpdateSettings(s)
			ctx.JSON(http.StatusOK, gin.H{"data": s})
		}).
		POST("/notifications/check", func(ctx *gin.Context) {
			if !m.Settings().EventNotifications {
				ctx.JSON(http.StatusOK, gin.H{"created": 0, "enabled": false})
				return
			}
			events, err := lib.GAPIListUpcomingEvents(config.GetCalendarId(), 20, nil)
			if err != nil {
				log.Printf("Error fetching calendar events: %s\n", err.Error())
				ctx.JSON(http.StatusBadGateway, gin.H{"error": "calendar unavailable"})
				return
			}
			created := rec.Reconcile(events, time.Now())
			ctx.JSON(http.StatusOK, gin.H{"created": created, "enabled": true})
		})
	return g
}
