package controllers

import (
	"fmt"
	"log"
	"net/http"

	"quickcourt/src/db"
	"quickcourt/src/lib"
	"quickcourt/src/models"

	"github.com/gin-gonic/gin"
)

func cacheLoggedInUser(ctx *gin.Context, user *models.User) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	_, err := rd.JSONSet(ctx, fmt.Sprintf("%d:user", user.ID), "$", user).Result()
	if err != nil {
		log.Printf("[redis] Error updating user cache: %s\n", err.Error())
	}
}

// AccountMe returns the profile of the authenticated user.
func AccountMe(ctx *gin.Context) {
	userId := ctx.GetUint("id")
	db := db.GetDb()
	var user models.User
	if err := db.
		Model(&models.User{}).
		Where(&models.User{ID: userId}).
		First(&user).
		Error; err != nil {
		ctx.Status(http.StatusNotFound)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": user})
}

// AccountUpdate changes name/phone on the authenticated user's profile.
func AccountUpdate(ctx *gin.Context) {
	var body struct {
		Name  string `json:"name,omitempty"`
		Phone string `json:"phone,omitempty"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userId := ctx.GetUint("id")
	db := db.GetDb()
	updates := map[string]any{}
	if body.Name != "" {
		updates["name"] = body.Name
	}
	if body.Phone != "" {
		updates["phone"] = body.Phone
	}
	if len(updates) == 0 {
		ctx.Status(http.StatusNoContent)
		return
	}
	if err := db.
		Model(&models.User{}).
		Where(&models.User{ID: userId}).
		Updates(updates).
		Error; err != nil {
		log.Printf("Error updating user [%d]: %s\n", userId, err.Error())
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not update profile"})
		return
	}
	ctx.Status(http.StatusNoContent)
}
