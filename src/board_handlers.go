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
)

func boardHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/board/posts", func(ctx *gin.Context) {
			var query struct {
				Topic string `form:"topic"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var posts []models.Post
			db := db.GetDb()
			tx := db.
				Model(&models.Post{}).
				Preload("Replies").
				Where("parent_id IS NULL").
				Order("pinned desc").
				Order("created_at desc").
				Limit(50)
			if query.Topic != "" {
				tx = tx.Where(&models.Post{Topic: query.Topic})
			}
			if err := tx.Find(&posts).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": posts})
		}).
		GET("/board/posts/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var post models.Post
			db := db.GetDb()
			err := db.
				Model(&models.Post{}).
				Preload("Replies").
				Where("id = ?", params.ID).
				First(&post).
				Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": post})
		}).
		POST("/board/posts", func(ctx *gin.Context) {
			var body types.CreatePostRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			post := models.Post{
				Author:  body.Author,
				Body:    body.Body,
				Topic:   body.Topic,
				Pinned:  body.Pinned,
				IsStaff: body.IsStaff,
			}
			if body.Title != "" {
				post.Title = &body.Title
			}
			if body.Parent > 0 {
				parent := body.Parent
				post.ParentID = &parent
			}
			db := db.GetDb()
			if err := db.Transaction(func(tx *gorm.DB) error {
				if post.ParentID != nil {
					var count int64
					if err := tx.Model(&models.Post{}).Where("id = ?", *post.ParentID).Count(&count).Error; err != nil {
						return err
					}
					if count == 0 {
						return gorm.ErrRecordNotFound
					}
				}
				return tx.Create(&post).Error
			}); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": post})
		}).
		DELETE("/board/posts/:id", middlewares.AdminMiddleware, func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			if err := db.Delete(&models.Post{}, params.ID).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
