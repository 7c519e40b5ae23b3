package model

// NoteProfile links a note to a profile.
// At most one row exists for each (note, profile) pair.
type NoteProfile struct {
	ID        string `gorm:"primaryKey;uuid;size:36;not null;"`
	NoteID    string `gorm:"uuid;size:36;not null;uniqueIndex:idx_note_profiles_pair,priority:1;index:idx_note_profiles_note_id"`
	ProfileID string `gorm:"uuid;size:36;not null;uniqueIndex:idx_note_profiles_pair,priority:2;index:idx_note_profiles_profile_id"`
}

func (n *NoteProfile) TableName() string {
	return "note_profiles"
}
