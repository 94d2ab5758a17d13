package user

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Pushkaraj-Palli/Discord-Clone/internal/auth"
	"github.com/Pushkaraj-Palli/Discord-Clone/pkg/chat"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetUser(userID string) (*chat.User, error) {
	var user chat.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetStatus updates the persisted presence status. Valid values are
// online, offline, idle, and dnd.
func (s *UserService) SetStatus(userID, status string) error {
	switch status {
	case chat.StatusOnline, chat.StatusOffline, chat.StatusIdle, chat.StatusDND:
	default:
		return errors.New("invalid status value")
	}

	result := s.db.Model(&chat.User{}).Where("id = ?", userID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}

type UpdateUserRequest struct {
	Username  *string `json:"username,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Password  *string `json:"password,omitempty"`
}

func (s *UserService) UpdateUser(userID string, req UpdateUserRequest) (*chat.User, error) {
	var user chat.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	updates := make(map[string]interface{})

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if len(username) < 3 || len(username) > 30 {
			return nil, errors.New("username must be between 3 and 30 characters")
		}

		var existingUser chat.User
		result := s.db.First(&existingUser, "username = ? AND id != ?", username, userID)
		if result.Error == nil {
			return nil, errors.New("username already taken")
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check username uniqueness: %w", result.Error)
		}
		updates["username"] = username
	}

	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}

	if req.Password != nil {
		if len(*req.Password) < 6 {
			return nil, errors.New("password must be at least 6 characters")
		}
		hashed, err := auth.HashString(*req.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashed
	}

	if len(updates) == 0 {
		return &user, nil
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// ListInvitations returns the user's pending invitations with the
// inviting user's display fields loaded.
func (s *UserService) ListInvitations(userID string) ([]chat.Invitation, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	var invitations []chat.Invitation
	err = s.db.
		Preload("InvitedBy").
		Where("email = ? AND status = ?", user.Email, chat.InviteStatusPending).
		Find(&invitations).Error
	return invitations, err
}

// AcceptInvite marks a pending invitation accepted and adds the user
// to the server's member set. Accepting while already a member just
// settles the invitation.
func (s *UserService) AcceptInvite(userID, serverID, invitationID string) error {
	user, invitation, server, err := s.resolveInvite(userID, serverID, invitationID)
	if err != nil {
		return err
	}

	if !server.IsMember(userID) {
		if err := s.db.Model(server).Association("Members").Append(user); err != nil {
			return err
		}
	}

	return s.db.Model(invitation).Update("status", chat.InviteStatusAccepted).Error
}

// DeclineInvite marks a pending invitation declined.
func (s *UserService) DeclineInvite(userID, serverID, invitationID string) error {
	_, invitation, _, err := s.resolveInvite(userID, serverID, invitationID)
	if err != nil {
		return err
	}

	return s.db.Model(invitation).Update("status", chat.InviteStatusDeclined).Error
}

func (s *UserService) resolveInvite(userID, serverID, invitationID string) (*chat.User, *chat.Invitation, *chat.Server, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, nil, nil, errors.New("user not found")
	}

	var invitation chat.Invitation
	err = s.db.First(&invitation, "id = ? AND server_id = ? AND email = ? AND status = ?",
		invitationID, serverID, user.Email, chat.InviteStatusPending).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, errors.New("invitation not found or already settled")
		}
		return nil, nil, nil, err
	}

	var server chat.Server
	err = s.db.Preload("Members").First(&server, "id = ?", serverID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, errors.New("server not found")
		}
		return nil, nil, nil, err
	}

	return user, &invitation, &server, nil
}
