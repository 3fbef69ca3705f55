package lib

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

const EmailsTopic = "emails"

func KafkaProduceMessage(clientId string, topic string, payload map[string]any) error {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"client.id":         clientId,
		"acks":              "all",
	})
	if err != nil {
		log.Printf("Error creating producer: %s\n", err.Error())
		return err
	}
	value, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling payload: %s\n", err.Error())
		return err
	}
	err = p.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          value,
	}, nil)
	if err != nil {
		log.Printf("Error producing to %s: %s\n", topic, err.Error())
		return err
	}
	return nil
}

// KafkaConsumer drains a topic in the background and hands each message to
// the handler. Delivery problems are logged and the message is skipped.
func KafkaConsumer(groupId string, topic string, handler func(value []byte)) {
	log.Println("Initializing kafka Consumer...")
	master, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"group.id":          groupId,
		"auto.offset.reset": "smallest",
		"retry.backoff.ms":  100,
	})
	if err != nil {
		log.Printf("Error on consumer: %s\n", err.Error())
		return
	}
	err = master.SubscribeTopics([]string{topic}, nil)
	if err != nil {
		log.Printf("Error on consumer: %s\n", err.Error())
		return
	}
	go func() {
		log.Printf("[BACKGROUND]: waiting for messages on %s...\n", topic)
		run := true
		for run {
			ev := master.Poll(100)
			switch e := ev.(type) {
			case *kafka.Message:
				handler(e.Value)
			case kafka.Error:
				log.Printf("[kafka] Error: %v\n", e)
				run = false
			default:
			}
		}
		master.Close()
	}()
}

func KafkaCreateTopics(topics ...string) ([]kafka.TopicResult, error) {
	a, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
	})
	if err != nil {
		log.Printf("Error on AdminClient: %s\n", err.Error())
		return nil, err
	}
	topicsDef := []kafka.TopicSpecification{}
	for _, topic := range topics {
		topicsDef = append(topicsDef, kafka.TopicSpecification{
			Topic:         topic,
			NumPartitions: 10,
		})
	}
	result, err := a.CreateTopics(context.Background(), topicsDef)
	if err != nil {
		log.Printf("Error creating topics: %s\n", err.Error())
		return nil, err
	}
	return result, nil
}
