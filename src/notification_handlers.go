package main

import (
	"net/http"

	"quickcourt/src/db"
	"quickcourt/src/models"
	"quickcourt/src/types"

	"github.com/gin-gonic/gin"
)

func notificationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/notifications", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var notifications []models.Notification
			err := db.
				Model(&models.Notification{}).
				Where(&models.Notification{UserID: userId}).
				Order("created_at desc").
				Limit(100).
				Find(&notifications).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": notifications, "count": len(notifications)})
		}).
		PUT("/notifications/:id/read", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			// is_read only ever moves false to true.
			res := db.
				Model(&models.Notification{}).
				Where(&models.Notification{ID: params.ID, UserID: userId}).
				Where("is_read = ?", false).
				Update("is_read", true)
			if res.Error != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": res.Error.Error()})
				return
			}
			if res.RowsAffected == 0 {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
