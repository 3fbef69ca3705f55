package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"quickcourt/src/db"
	"quickcourt/src/lib"
	"quickcourt/src/models"
	"quickcourt/src/types"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func timeslotHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/courts/:id/timeslots", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.CreateTimeSlotRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ownerId := ctx.GetUint("id")
			db := db.GetDb()
			var court models.Court
			err := db.
				Model(&models.Court{}).
				Joins("Venue").
				Where("courts.id = ? AND \"Venue\".owner_id = ?", params.ID, ownerId).
				First(&court).
				Error
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "court not found"})
				return
			}
			slot := models.TimeSlot{
				CourtID:   court.ID,
				Date:      body.Date,
				StartTime: body.StartTime,
				EndTime:   body.EndTime,
			}
			// The (court, date, start_time) unique index rejects duplicates.
			if err := db.Create(&slot).Error; err != nil {
				ctx.JSON(http.StatusConflict, gin.H{"error": "timeslot already exists"})
				return
			}
			go invalidateSlotCache(court.ID, body.Date)
			ctx.JSON(http.StatusCreated, gin.H{"data": slot})
		})
	return g
}

func publicTimeslotHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/courts/:id/timeslots", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			date := ctx.Query("date")
			if date == "" {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
				return
			}
			key := fmt.Sprintf("slots:%d:%s", params.ID, date)
			if rd := lib.GetRedisClient(); rd != nil {
				cached, err := rd.Get(ctx, key).Result()
				if err == nil {
					var slots []models.TimeSlot
					if err := json.Unmarshal([]byte(cached), &slots); err == nil {
						ctx.JSON(http.StatusOK, gin.H{"data": slots, "count": len(slots)})
						return
					}
				} else if err != redis.Nil {
					log.Printf("[redis] Error reading %s: %s\n", key, err.Error())
				}
			}
			db := db.GetDb()
			var slots []models.TimeSlot
			err := db.
				Model(&models.TimeSlot{}).
				Where(&models.TimeSlot{CourtID: params.ID, Date: date}).
				Order("start_time asc").
				Find(&slots).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			if rd := lib.GetRedisClient(); rd != nil {
				if payload, err := json.Marshal(slots); err == nil {
					if err := rd.SetEx(context.Background(), key, payload, 5*time.Minute).Err(); err != nil {
						log.Printf("[redis] Error caching %s: %s\n", key, err.Error())
					}
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"data": slots, "count": len(slots)})
		})
	return g
}

func invalidateSlotCache(courtID uint, date string) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	key := fmt.Sprintf("slots:%d:%s", courtID, date)
	if err := rd.Del(context.Background(), key).Err(); err != nil {
		log.Printf("[redis] Error invalidating %s: %s\n", key, err.Error())
	}
}
