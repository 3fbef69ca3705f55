package boot

import (
	"log"
	"os"
	"time"

	"quickcourt/src/db"
	"quickcourt/src/lib"
	"quickcourt/src/lib/mailer"
	"quickcourt/src/models"
	"quickcourt/src/utils"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Sport{},
		&models.Venue{},
		&models.VenuePhoto{},
		&models.Court{},
		&models.TimeSlot{},
		&models.Booking{},
		&models.Review{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitBroker() {
	if os.Getenv("KAFKA_BROKER") == "" {
		log.Println("No broker configured; emails are delivered inline")
		return
	}
	go lib.KafkaCreateTopics(lib.EmailsTopic)
	mailer.StartConsumer()
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	id, err := lib.CreateCronJob(func() {
		if err := utils.CompleteElapsedBookings(); err != nil {
			log.Printf("Error completing elapsed bookings: %s\n", err.Error())
		}
	}, 10*time.Minute)
	if err != nil {
		log.Printf("Error scheduling booking completion job: %s\n", err.Error())
		return
	}
	log.Printf("Booking completion job scheduled: %s\n", *id)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
	}
}
