package mailer

import (
	"encoding/json"
	"log"
	"os"

	"quickcourt/src/lib"
)

// NewMailerMessage enqueues an email for the background consumer. When no
// broker is configured the message is delivered inline so local runs still
// send mail.
func NewMailerMessage(input *lib.SendMailInput) error {
	if os.Getenv("KAFKA_BROKER") == "" {
		return lib.SendMail(input)
	}
	emailBody := map[string]any{
		"from":      input.From,
		"from-name": input.FromName,
		"to":        input.To,
		"body":      input.Body,
		"html":      input.Html,
		"subject":   input.Subject,
	}
	if err := lib.KafkaProduceMessage("mailer", lib.EmailsTopic, emailBody); err != nil {
		return err
	}
	return nil
}

// StartConsumer drains the emails topic and delivers over SMTP.
func StartConsumer() {
	lib.KafkaConsumer("mailer", lib.EmailsTopic, func(value []byte) {
		var payload struct {
			From     string   `json:"from"`
			FromName string   `json:"from-name"`
			To       []string `json:"to"`
			Body     string   `json:"body"`
			Html     bool     `json:"html"`
			Subject  string   `json:"subject"`
		}
		if err := json.Unmarshal(value, &payload); err != nil {
			log.Printf("[mailer] Could not decode message: %s\n", err.Error())
			return
		}
		err := lib.SendMail(&lib.SendMailInput{
			From:     payload.From,
			FromName: payload.FromName,
			To:       payload.To,
			Subject:  payload.Subject,
			Body:     payload.Body,
			Html:     payload.Html,
		})
		if err != nil {
			log.Printf("[mailer] Delivery failed for %v: %s\n", payload.To, err.Error())
		}
	})
}
