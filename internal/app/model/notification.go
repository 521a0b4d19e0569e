package model

import "time"

type NotificationType string

const (
	NotificationTypeCart    NotificationType = "cart"
	NotificationTypeJob     NotificationType = "job"
	NotificationTypeCatalog NotificationType = "catalog"
)

// Notification is a transient event pushed to websocket subscribers. It is never stored.
type Notification struct {
	Type      NotificationType `json:"type"`
	Message   string           `json:"message,omitempty"`
	Data      interface{}      `json:"data,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func NewNotification(t NotificationType, message string, data interface{}) Notification {
	return Notification{
		Type:      t,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now(),
	}
}
