package controllers

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

// AuthRegister creates the account unverified and mails the first OTP code.
func AuthRegister(ctx *gin.Context) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		log.Printf("Error hashing password: %s\n", err.Error())
		ctx.Status(http.StatusInternalServerError)
		return
	}
	role := types.ROLE_USER
	if body.Role != "" {
		role = types.Role(body.Role)
	}
	db := db.GetDb()
	user := models.User{
		Email:        body.Email,
		Name:         body.Name,
		Phone:        body.Phone,
		Role:         role,
		PasswordHash: hash,
	}
	var code string
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		code, err = utils.IssueOTP(tx, &user)
		return err
	})
	if err != nil {
		log.Printf("Error registering user %s: %s\n", body.Email, err.Error())
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not register user"})
		return
	}
	utils.SendOTPMail(&user, code)
	ctx.JSON(http.StatusCreated, gin.H{"data": user})
}

// AuthVerifyOTP consumes the emailed code and unlocks login.
func AuthVerifyOTP(ctx *gin.Context) {
	var body types.VerifyOTPRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := utils.VerifyOTP(body.Email, body.OTPCode)
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, gin.H{"message": "OTP verified successfully. You can now log in."})
	case errors.Is(err, gorm.ErrRecordNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, types.ErrOTPExpired):
		ctx.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, types.ErrOTPInvalid):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("Error verifying OTP for %s: %s\n", body.Email, err.Error())
		ctx.Status(http.StatusInternalServerError)
	}
}

// AuthResendOTP reissues a code for an unverified account.
func AuthResendOTP(ctx *gin.Context) {
	var body types.ResendOTPRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	code, user, err := utils.ResendOTP(body.Email)
	switch {
	case err == nil:
		utils.SendOTPMail(user, code)
		ctx.JSON(http.StatusOK, gin.H{"message": "OTP resent successfully."})
	case errors.Is(err, gorm.ErrRecordNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, types.ErrAlreadyVerified):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, types.ErrResendTooSoon):
		ctx.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		log.Printf("Error resending OTP for %s: %s\n", body.Email, err.Error())
		ctx.Status(http.StatusInternalServerError)
	}
}

// AuthLogin issues a JWT. Unverified accounts cannot log in regardless of
// password correctness.
func AuthLogin(ctx *gin.Context) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	db := db.GetDb()
	var user models.User
	if err := db.
		Model(&models.User{}).
		Where(&models.User{Email: body.Email}).
		First(&user).
		Error; err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": types.ErrInvalidCredentials.Error()})
		return
	}
	if !utils.CheckPassword(user.PasswordHash, body.Password) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": types.ErrInvalidCredentials.Error()})
		return
	}
	if !user.OTPVerified {
		ctx.JSON(http.StatusForbidden, gin.H{"error": types.ErrNotVerified.Error()})
		return
	}
	token, err := utils.GenerateJWT(user.Email, user.ID, user.Role)
	if err != nil {
		log.Printf("Error generating token for %s: %s\n", user.Email, err.Error())
		ctx.Status(http.StatusInternalServerError)
		return
	}
	cacheLoggedInUser(ctx, &user)
	ctx.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
