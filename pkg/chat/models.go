package chat

import (
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

// MaxMessageLength is the maximum number of characters allowed in a
// single chat message.
const MaxMessageLength = 2000

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
	StatusIdle    = "idle"
	StatusDND     = "dnd"
)

const (
	ChannelKindText  = "text"
	ChannelKindVoice = "voice"
)

const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusDeclined = "declined"
)

type User struct {
	ID        string `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;not null"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	AvatarURL string
	Status    string `gorm:"default:offline"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Server struct {
	ID      string `gorm:"primaryKey"`
	Name    string `gorm:"not null"`
	Icon    string
	OwnerID string `gorm:"not null"`

	Owner       User         `gorm:"foreignKey:OwnerID"`
	Members     []User       `gorm:"many2many:server_members"`
	Channels    []Channel    `gorm:"constraint:OnDelete:CASCADE"`
	Invitations []Invitation `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Channel struct {
	ID       string `gorm:"primaryKey"`
	ServerID string `gorm:"not null;index"`
	Name     string `gorm:"not null"`
	Topic    string
	Kind     string `gorm:"not null;default:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Invitation struct {
	ID          string `gorm:"primaryKey"`
	ServerID    string `gorm:"not null;index"`
	Email       string `gorm:"not null;index"`
	Status      string `gorm:"not null;default:pending"`
	InvitedByID string `gorm:"not null"`

	InvitedBy User `gorm:"foreignKey:InvitedByID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Message struct {
	ID        string `gorm:"primaryKey"`
	SenderID  string `gorm:"not null;index"`
	ServerID  string `gorm:"not null;index"`
	ChannelID string `gorm:"not null;index"`
	Content   string `gorm:"size:2000;not null"`

	Sender User `gorm:"foreignKey:SenderID"`

	CreatedAt time.Time
}

// IsMember reports whether the given user is in the server's member set.
// Members must be preloaded.
func (s *Server) IsMember(userID string) bool {
	for _, m := range s.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// HasTextChannel reports whether the given channel id is one of the
// server's text channels. Channels must be preloaded.
func (s *Server) HasTextChannel(channelID string) bool {
	for _, c := range s.Channels {
		if c.ID == channelID && c.Kind == ChannelKindText {
			return true
		}
	}
	return false
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID, err = nanoid.New(8)
	}
	return
}

func (s *Server) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID, err = nanoid.New(6)
	}
	return
}

func (c *Channel) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID, err = nanoid.New(6)
	}
	return
}

func (i *Invitation) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID, err = nanoid.New(8)
	}
	return
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID, err = nanoid.New(12)
	}
	return
}
