package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Note{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Profile{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&NoteProfile{}); err != nil {
		return err
	}

	return nil
}
