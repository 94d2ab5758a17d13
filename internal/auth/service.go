package auth

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Pushkaraj-Palli/Discord-Clone/pkg/chat"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

func (s *AuthService) Register(email, username, password string) (*chat.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)

	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("invalid email address")
	}
	if len(username) < 3 || len(username) > 30 {
		return nil, errors.New("username must be between 3 and 30 characters")
	}
	if len(password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	var existing chat.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, errors.New("email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = s.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, errors.New("username already taken")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := HashString(password)
	if err != nil {
		return nil, err
	}

	user := chat.User{
		Email:    email,
		Username: username,
		Password: hashedPassword,
	}

	return &user, s.db.Create(&user).Error
}

func (s *AuthService) Login(email, password string) (*chat.User, error) {
	var user chat.User

	err := s.db.Where("email = ?", strings.TrimSpace(strings.ToLower(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid email or password")
		}
		return nil, err
	}

	if !VerifyHashedString(password, user.Password) {
		return nil, errors.New("invalid email or password")
	}

	return &user, nil
}
