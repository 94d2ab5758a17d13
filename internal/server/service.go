package server

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Pushkaraj-Palli/Discord-Clone/pkg/chat"
)

type ServerService struct {
	db *gorm.DB
}

func NewServerService(db *gorm.DB) *ServerService {
	return &ServerService{db: db}
}

// CreateServer creates a server owned by ownerID. The owner is added
// to the member set immediately.
func (s *ServerService) CreateServer(ownerID, name, icon string) (*chat.Server, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("server name is required")
	}

	var owner chat.User
	if err := s.db.First(&owner, "id = ?", ownerID).Error; err != nil {
		return nil, err
	}

	server := chat.Server{
		Name:    strings.TrimSpace(name),
		Icon:    icon,
		OwnerID: ownerID,
	}

	if err := s.db.Create(&server).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&server).Association("Members").Append(&owner); err != nil {
		return nil, err
	}

	return s.FindServer(server.ID)
}

// FindServer loads a server with its owner, member set, and channels.
// This is the membership oracle consumed by the gateway: callers check
// IsMember and HasTextChannel on the result.
func (s *ServerService) FindServer(serverID string) (*chat.Server, error) {
	var server chat.Server
	err := s.db.
		Preload("Owner").
		Preload("Members").
		Preload("Channels").
		First(&server, "id = ?", serverID).Error
	if err != nil {
		return nil, err
	}
	return &server, nil
}

// GetUserServers returns every server the user is a member of.
func (s *ServerService) GetUserServers(userID string) ([]chat.Server, error) {
	var servers []chat.Server
	err := s.db.
		Joins("JOIN server_members ON server_members.server_id = servers.id").
		Where("server_members.user_id = ?", userID).
		Preload("Channels").
		Find(&servers).Error
	return servers, err
}

// DeleteServer removes a server and everything hanging off it. Only
// the owner may delete.
func (s *ServerService) DeleteServer(userID, serverID string) error {
	server, err := s.FindServer(serverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("server not found")
		}
		return err
	}

	if server.OwnerID != userID {
		return errors.New("only the server owner can delete the server")
	}

	if err := s.db.Where("server_id = ?", serverID).Delete(&chat.Message{}).Error; err != nil {
		return err
	}
	if err := s.db.Where("server_id = ?", serverID).Delete(&chat.Channel{}).Error; err != nil {
		return err
	}
	if err := s.db.Where("server_id = ?", serverID).Delete(&chat.Invitation{}).Error; err != nil {
		return err
	}
	if err := s.db.Model(server).Association("Members").Clear(); err != nil {
		return err
	}

	return s.db.Delete(&chat.Server{}, "id = ?", serverID).Error
}

// AddChannel adds a text or voice channel to a server. Only the owner
// can add channels.
func (s *ServerService) AddChannel(userID, serverID, name, topic, kind string) (*chat.Channel, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("channel name is required")
	}
	if kind != chat.ChannelKindText && kind != chat.ChannelKindVoice {
		return nil, errors.New("invalid channel type")
	}

	server, err := s.FindServer(serverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("server not found")
		}
		return nil, err
	}

	if server.OwnerID != userID {
		return nil, errors.New("only the server owner can add channels")
	}

	channel := chat.Channel{
		ServerID: serverID,
		Name:     strings.TrimSpace(name),
		Topic:    topic,
		Kind:     kind,
	}

	if err := s.db.Create(&channel).Error; err != nil {
		return nil, err
	}

	return &channel, nil
}

// InviteByEmail records a pending invitation to a server. Any member
// may invite; inviting an existing member or re-inviting a pending
// email is rejected.
func (s *ServerService) InviteByEmail(inviterID, serverID, email string) (*chat.Invitation, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, errors.New("email is required")
	}

	server, err := s.FindServer(serverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("server not found")
		}
		return nil, err
	}

	if !server.IsMember(inviterID) {
		return nil, errors.New("you are not a member of this server")
	}

	var invited chat.User
	err = s.db.Where("email = ?", email).First(&invited).Error
	if err == nil && server.IsMember(invited.ID) {
		return nil, errors.New("user is already a member of this server")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var existing chat.Invitation
	err = s.db.Where("server_id = ? AND email = ? AND status = ?", serverID, email, chat.InviteStatusPending).First(&existing).Error
	if err == nil {
		return nil, errors.New("an invitation to this user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	invitation := chat.Invitation{
		ServerID:    serverID,
		Email:       email,
		Status:      chat.InviteStatusPending,
		InvitedByID: inviterID,
	}

	if err := s.db.Create(&invitation).Error; err != nil {
		return nil, err
	}

	return &invitation, nil
}
