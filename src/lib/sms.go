package lib

import (
	"context"
	"errors"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

var snsClient *sns.Client

func GetSNSClient() *sns.Client {
	if snsClient != nil {
		return snsClient
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Error loading default config: %s\n", err.Error())
		return nil
	}
	snsClient = sns.NewFromConfig(cfg)
	return snsClient
}

func NewSNSClient(c *sns.Client) {
	snsClient = c
}

// SNSPublishSMS sends a text message straight to a phone number and returns
// the provider's message id for correlation.
func SNSPublishSMS(phone string, message string) (*string, error) {
	client := GetSNSClient()
	if client == nil {
		return nil, errors.New("sns client unavailable")
	}
	output, err := client.Publish(context.Background(), &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
	})
	if err != nil {
		log.Printf("Error publishing SMS to %s: %s\n", phone, err.Error())
		return nil, err
	}
	return output.MessageId, nil
}
