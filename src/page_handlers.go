package main

import (
	"errors"
	"net/http"

	"portal/src/db"
	"portal/src/middlewares"
	"portal/src/models"
	"portal/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func pageHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/pages", func(ctx *gin.Context) {
			var pages []models.Page
			db := db.GetDb()
			err := db.
				Model(&models.Page{}).
				Select("id", "slug", "title", "updated_at").
				Order("slug asc").
				Find(&pages).
				Error
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": pages})
		}).
		GET("/pages/:slug", func(ctx *gin.Context) {
			var params struct {
				Slug string `uri:"slug" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var page models.Page
			db := db.GetDb()
			err := db.
				Model(&models.Page{}).
				Where(&models.Page{Slug: params.Slug}).
				First(&page).
				Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": page})
		}).
		PUT("/pages/:slug", middlewares.AdminMiddleware, func(ctx *gin.Context) {
			var params struct {
				Slug string `uri:"slug" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdatePageRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			page := models.Page{
				Slug:  params.Slug,
				Title: body.Title,
				Body:  body.Body,
			}
			db := db.GetDb()
			err := db.
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "slug"}},
					DoUpdates: clause.AssignmentColumns([]string{"title", "body", "updated_at"}),
				}).
				Create(&page).
				Error
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": page})
		})
	return g
}
