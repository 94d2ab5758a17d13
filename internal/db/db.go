package db

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Pushkaraj-Palli/Discord-Clone/pkg/chat"
)

// InitDB opens the sqlite database at path and migrates the chat schema.
func InitDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&chat.User{},
		&chat.Server{},
		&chat.Channel{},
		&chat.Invitation{},
		&chat.Message{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
