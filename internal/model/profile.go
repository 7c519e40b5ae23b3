package model

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Profile is the aggregated description of one entity mentioned across notes.
// The content is regenerated from scratch whenever the set of linked notes changes.
type Profile struct {
	ID        string `gorm:"primaryKey;uuid;size:36;not null;"`
	UserID    string `gorm:"index:idx_profiles_user_title,priority:1;size:191;not null;default:''"`
	Title     string `gorm:"not null"`
	TitleKey  string `gorm:"index:idx_profiles_user_title,priority:2;size:191;not null"`
	Content   string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Profile) TableName() string {
	return "profiles"
}

// BeforeSave keeps the lookup key in sync with the title.
func (p *Profile) BeforeSave(tx *gorm.DB) error {
	p.TitleKey = TitleKey(p.Title)
	return nil
}

func (p *Profile) MarshalBinary() ([]byte, error) {
	return json.Marshal(p)
}

// TitleKey returns the normalized form used for case-insensitive title matching.
func TitleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
