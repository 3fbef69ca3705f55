package main

import (
	"log"
	"net/http"

	"quickcourt/src/db"
	"quickcourt/src/models"
	"quickcourt/src/types"

	"github.com/gin-gonic/gin"
)

func courtHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/venues/:id/courts", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.CreateCourtRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ownerId := ctx.GetUint("id")
			db := db.GetDb()
			var venue models.Venue
			if err := db.
				Model(&models.Venue{}).
				Where(&models.Venue{ID: params.ID, OwnerID: ownerId}).
				First(&venue).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "venue not found"})
				return
			}
			court := models.Court{
				Name:         body.Name,
				VenueID:      venue.ID,
				SportID:      body.SportID,
				PricePerHour: body.PricePerHour,
			}
			if body.OperatingHours != nil {
				court.OperatingHours = &body.OperatingHours
			}
			if err := db.Create(&court).Error; err != nil {
				log.Printf("Could not create court: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not create court"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": court})
		}).
		GET("/venues/:id/courts", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var courts []models.Court
			err := db.
				Model(&models.Court{}).
				Where(&models.Court{VenueID: params.ID}).
				Preload("Sport").
				Find(&courts).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": courts, "count": len(courts)})
		})
	return g
}
