package main

import (
	"errors"
	"log"
	"net/http"

	"quickcourt/src/db"
	"quickcourt/src/models"
	"quickcourt/src/types"
	"quickcourt/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func reviewHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/reviews", func(ctx *gin.Context) {
			var body types.SubmitReviewRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			review, err := utils.SubmitReview(userId, body.VenueID, body.Rating, body.Comment)
			if err != nil {
				switch {
				case errors.Is(err, types.ErrInvalidRating):
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				case errors.Is(err, types.ErrDuplicateReview):
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				case errors.Is(err, gorm.ErrRecordNotFound):
					ctx.JSON(http.StatusNotFound, gin.H{"error": "venue not found"})
				default:
					log.Printf("Could not submit review: %s\n", err.Error())
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not submit review"})
				}
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": review})
		}).
		PUT("/reviews/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateReviewRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			review, err := utils.UpdateReview(params.ID, userId, body.Rating, body.Comment)
			if err != nil {
				switch {
				case errors.Is(err, types.ErrInvalidRating):
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				case errors.Is(err, gorm.ErrRecordNotFound):
					ctx.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
				default:
					log.Printf("Could not update review: %s\n", err.Error())
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not update review"})
				}
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": review})
		})
	return g
}

func publicReviewHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/venues/:id/reviews", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var reviews []models.Review
			err := db.
				Model(&models.Review{}).
				Where(&models.Review{VenueID: params.ID}).
				Preload("User").
				Find(&reviews).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reviews, "count": len(reviews)})
		})
	return g
}
