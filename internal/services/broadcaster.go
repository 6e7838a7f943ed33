package services

import "spinwheel-backend/internal/models"

// Broadcaster pushes live balance updates to connected clients. The engine
// treats it as fire-and-forget; delivery is best effort.
type Broadcaster interface {
	BroadcastBalance(userID string, wallet *models.Wallet)
}

// NopBroadcaster drops every update.
type NopBroadcaster struct{}

func (NopBroadcaster) BroadcastBalance(string, *models.Wallet) {}
