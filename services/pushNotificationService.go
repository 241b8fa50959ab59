package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// DefaultPushTopic receives change pushes when PUSH_TOPIC is unset.
const DefaultPushTopic = "choir-admins"

// messageSender is the part of the FCM client the service uses.
type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type PushNotificationService struct {
	fcmClient messageSender
	topic     string
}

type NotificationPayload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

var pushService *PushNotificationService

func InitPushNotificationService() {
	topic := os.Getenv("PUSH_TOPIC")
	if topic == "" {
		topic = DefaultPushTopic
	}

	// Initialize Firebase Admin SDK
	serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
	if serviceAccountPath == "" {
		log.Println("WARNING: FIREBASE_SERVICE_ACCOUNT_PATH not set. Push notifications will not be sent.")
		return
	}

	app, err := firebase.NewApp(context.Background(), nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		log.Printf("Failed to initialize Firebase app with service account: %v", err)
		return
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Printf("Failed to get Firebase messaging client: %v", err)
		return
	}

	pushService = &PushNotificationService{fcmClient: client, topic: topic}
	log.Printf("Push notification service initialized successfully with FCM, topic %s", topic)
}

// GetPushNotificationService returns the singleton push service, nil when disabled.
func GetPushNotificationService() *PushNotificationService {
	return pushService
}

// SendToTopic sends a notification to every device subscribed to the service topic.
func (s *PushNotificationService) SendToTopic(payload NotificationPayload) error {
	if s == nil || s.fcmClient == nil {
		return fmt.Errorf("FCM client not initialized")
	}

	message := &messaging.Message{
		Topic: s.topic,
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data: payload.Data,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	response, err := s.fcmClient.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send FCM topic message: %v", err)
	}

	log.Printf("Successfully sent FCM topic notification to %s. Message ID: %s", s.topic, response)
	return nil
}
