package model

import (
	"encoding/json"
	"time"
)

// Note is a user authored markdown note.
// Tags hold the JSON encoded entity names derived by the profile synchronizer,
// they are never written directly by a user.
type Note struct {
	ID        string `gorm:"primaryKey;uuid;size:36;not null;"`
	UserID    string `gorm:"index:idx_notes_user_id;size:191;not null;default:''"`
	Title     string `gorm:"not null"`
	Content   string `gorm:"not null"`
	Tags      string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (n *Note) TableName() string {
	return "notes"
}

func (n *Note) MarshalBinary() ([]byte, error) {
	return json.Marshal(n)
}
