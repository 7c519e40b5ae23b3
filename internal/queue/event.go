package queue

import (
	"context"
	"encoding/json"
	"time"
)

// DefaultProfileTopic is the topic profile events are published to.
var DefaultProfileTopic = "notes.profile.events"

type EventType string

const (
	EventProfileCreated EventType = "profile.created"
	EventProfileUpdated EventType = "profile.updated"
	EventProfileDeleted EventType = "profile.deleted"
	EventNoteTagged     EventType = "note.tagged"
)

// ProfileEvent describes a change made by the synchronizer.
type ProfileEvent struct {
	Type      EventType `json:"type"`
	UserID    string    `json:"userId"`
	ProfileID string    `json:"profileId,omitempty"`
	NoteID    string    `json:"noteId,omitempty"`
	Title     string    `json:"title,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	At        time.Time `json:"at"`
}

// Key groups the events of one entity on the same partition.
func (e *ProfileEvent) Key() string {
	if e.ProfileID != "" {
		return e.ProfileID
	}
	return e.NoteID
}

func (e *ProfileEvent) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	// Publish appends an event to the queue.
	Publish(ctx context.Context, event *ProfileEvent) error
	// Close flushes pending events and releases the connection.
	Close()
}
