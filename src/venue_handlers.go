package main

import (
	"log"
	"net/http"

	"quickcourt/src/db"
	"quickcourt/src/models"
	"quickcourt/src/types"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func venueHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/venues", func(ctx *gin.Context) {
			if ctx.GetString("role") != string(types.ROLE_OWNER) {
				ctx.Status(http.StatusForbidden)
				return
			}
			var body types.CreateVenueRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ownerId := ctx.GetUint("id")
			db := db.GetDb()
			venue := models.Venue{
				Name:           body.Name,
				Slug:           slug.Make(body.Name),
				Description:    body.Description,
				Address:        body.Address,
				ApprovalStatus: types.VENUE_PENDING,
				OwnerID:        ownerId,
			}
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Create(&venue).Error; err != nil {
					return err
				}
				if len(body.Sports) > 0 {
					var sports []*models.Sport
					if err := tx.Where("id IN ?", body.Sports).Find(&sports).Error; err != nil {
						return err
					}
					if err := tx.Model(&venue).Association("Sports").Append(sports); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				log.Printf("Could not create venue: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not create venue"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": venue})
		}).
		GET("/venues/owned", func(ctx *gin.Context) {
			ownerId := ctx.GetUint("id")
			db := db.GetDb()
			var venues []models.Venue
			err := db.
				Model(&models.Venue{}).
				Where(&models.Venue{OwnerID: ownerId}).
				Preload("Courts").
				Find(&venues).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": venues, "count": len(venues)})
		}).
		PUT("/venues/:id/approval", func(ctx *gin.Context) {
			if ctx.GetString("role") != string(types.ROLE_ADMIN) {
				ctx.Status(http.StatusForbidden)
				return
			}
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.VenueApprovalRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			res := db.
				Model(&models.Venue{}).
				Where("id = ? AND approval_status = ?", params.ID, types.VENUE_PENDING).
				Update("approval_status", types.VenueApprovalStatus(body.Status))
			if res.Error != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": res.Error.Error()})
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusConflict, gin.H{"error": "venue is not awaiting approval"})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

func publicVenueHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/venues", func(ctx *gin.Context) {
			db := db.GetDb()
			var venues []models.Venue
			q := db.
				Model(&models.Venue{}).
				Where(&models.Venue{ApprovalStatus: types.VENUE_APPROVED}).
				Preload("Sports").
				Preload("Photos")
			if sport := ctx.Query("sport"); sport != "" {
				q = q.Joins("JOIN venue_sports ON venue_sports.venue_id = venues.id").
					Joins("JOIN sports ON sports.id = venue_sports.sport_id").
					Where("sports.name = ?", sport)
			}
			if err := q.Find(&venues).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": venues, "count": len(venues)})
		}).
		GET("/venues/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var venue models.Venue
			err := db.
				Model(&models.Venue{}).
				Where(&models.Venue{ID: params.ID, ApprovalStatus: types.VENUE_APPROVED}).
				Preload("Sports").
				Preload("Courts").
				Preload("Photos").
				Preload("Reviews").
				First(&venue).
				Error
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "venue not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": venue})
		}).
		GET("/sports", func(ctx *gin.Context) {
			db := db.GetDb()
			var sports []models.Sport
			if err := db.Find(&sports).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": sports, "count": len(sports)})
		})
	return g
}

func sportHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/sports", func(ctx *gin.Context) {
			if ctx.GetString("role") != string(types.ROLE_ADMIN) {
				ctx.Status(http.StatusForbidden)
				return
			}
			var body types.CreateSportRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			sport := models.Sport{Name: body.Name}
			if err := db.Create(&sport).Error; err != nil {
				ctx.JSON(http.StatusConflict, gin.H{"error": "sport already exists"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": sport})
		})
	return g
}
