package database

import "cheapbite/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UsernameReservation{},
		&models.Follow{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.Notification{},
		&models.Conversation{},
		&models.Message{},
		&models.Event{},
		&models.SavedItem{},
	}
}
