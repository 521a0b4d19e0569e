package service

import "github.com/ikkim/storefront-backend/internal/app/model"

// SessionNotifier pushes events to every connection of one cart session.
type SessionNotifier interface {
	NotifySession(session string, n model.Notification)
}

// AdminNotifier pushes events to every admin dashboard connection.
type AdminNotifier interface {
	NotifyAdmins(n model.Notification)
}

type noopNotifier struct{}

func (noopNotifier) NotifySession(string, model.Notification) {}
func (noopNotifier) NotifyAdmins(model.Notification)          {}
