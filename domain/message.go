// Package domain contains core concepts of the chat relay.
// This file defines Message events and related rules.
// Messages are immutable once built.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// GroupMessage is one broadcast to a group, as relayed and as persisted.
type GroupMessage struct {
	ID      uuid.UUID // unique identifier
	Group   string
	Sender  string
	Content string
	At      time.Time
}

// PrivateMessage is one direct message between two named sessions.
// Private messages are never persisted.
type PrivateMessage struct {
	Sender    string
	Recipient string
	Content   string
}

func NewGroupMessage(group, sender, content string) GroupMessage {
	return GroupMessage{
		ID:      uuid.New(),
		Group:   group,
		Sender:  sender,
		Content: content,
		At:      time.Now().UTC(),
	}
}
