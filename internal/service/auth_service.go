package service

import (
	"errors"
	"fmt"

	"projectgreen_backend/internal/config"
	"projectgreen_backend/internal/model"
	"projectgreen_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Users UserStore
	Cfg   *config.Config
}

func NewAuthService(users UserStore, cfg *config.Config) *AuthService {
	return &AuthService{
		Users: users,
		Cfg:   cfg,
	}
}

// Register creates a citizen or worker account. Admin accounts are
// seeded, never self-registered.
func (s *AuthService) Register(user *model.User) error {
	if user.Role != model.Citizen && user.Role != model.Worker {
		return fmt.Errorf("%w: role must be CITIZEN or WORKER", util.ErrInvalidArgument)
	}

	existing, err := s.Users.FindByEmail(user.Email)
	if err != nil && !errors.Is(err, util.ErrUserNotFound) {
		return err
	}
	if existing != nil {
		return util.ErrEmailRegistered
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	return s.Users.Create(user)
}

// Login verifies credentials and issues a JWT carrying (userId, role).
func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.Users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			return "", nil, util.ErrBadCredentials
		}
		return "", nil, err
	}

	if user.Disabled {
		return "", nil, util.ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrBadCredentials
	}

	jwt := s.Cfg.JWTSettings()
	token, err := util.GenerateJWT(user, jwt.Secret, jwt.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.Users.FindByID(claims.UserID)
	return user
}
