package main

import (
	"io"
	"log"
	"os"
	"path"
	"time"

	"quickcourt/src/boot"
	"quickcourt/src/config"
	"quickcourt/src/controllers"
	"quickcourt/src/middlewares"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api/v1"
)

// slotdate accepts today or a future calendar date.
var slotDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	d, err := time.Parse(config.DATE_FORMAT, date)
	if err != nil {
		return false
	}
	today, _ := time.Parse(config.DATE_FORMAT, time.Now().Format(config.DATE_FORMAT))
	return !d.Before(today)
}

// gttime requires the field to be a later wall-clock time than its param.
var gttime validator.Func = func(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	t, err := time.Parse(config.TIME_OF_DAY_FORMAT, value)
	if err != nil {
		return false
	}
	field := fl.Parent().FieldByName(fl.Param())
	other, err := time.Parse(config.TIME_OF_DAY_FORMAT, field.Interface().(string))
	if err != nil {
		return false
	}
	return t.After(other)
}

func setupRouter() *gin.Engine {
	r := gin.Default()
	r.SetTrustedProxies(nil)
	return r
}

func publicRoutes(g *gin.Engine) *gin.RouterGroup {
	group := g.Group(apiPrefix)
	group.POST("/auth/register", controllers.AuthRegister)
	group.POST("/auth/verify-otp", controllers.AuthVerifyOTP)
	group.POST("/auth/resend-otp", controllers.AuthResendOTP)
	group.POST("/auth/login", controllers.AuthLogin)
	publicVenueHandlers(group)
	publicTimeslotHandlers(group)
	publicReviewHandlers(group)
	return group
}

func authorizedRoutes(g *gin.Engine) *gin.RouterGroup {
	group := g.Group(apiPrefix)
	group.Use(middlewares.AuthMiddleware)
	group.GET("/me", controllers.AccountMe)
	group.PUT("/me", controllers.AccountUpdate)
	bookingHandlers(group)
	venueHandlers(group)
	courtHandlers(group)
	timeslotHandlers(group)
	reviewHandlers(group)
	notificationHandlers(group)
	sportHandlers(group)
	return group
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			log.Printf("No .env file found: %s\n", err.Error())
		}
	}
	initLogger()

	boot.InitDb()
	boot.InitScheduler()
	go boot.InitBroker()

	router := setupRouter()

	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOrigins = []string{os.Getenv("APP_HOST")}
		cc.AllowCredentials = true
		router.Use(cors.New(cc))
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("slotdate", slotDateValidatorFunc)
		v.RegisterValidation("gttime", gttime)
	}

	publicRoutes(router)
	authorizedRoutes(router)

	defer boot.StopScheduler()
	if err := router.Run(":9090"); err != nil {
		log.Fatalf("Error starting server: %s\n", err.Error())
	}
}
