package auth

import (
	"errors"
	"mime/multipart"
	"time"

	"github.com/spotter-app/core/internal/models"
	"github.com/spotter-app/core/internal/pkg/media"
	sessionpkg "github.com/spotter-app/core/internal/pkg/session"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	store  *media.Store
	logger *zap.Logger
}

func NewService(db *gorm.DB, store *media.Store, logger *zap.Logger) *Service {
	return &Service{db: db, store: store, logger: logger}
}

// Register creates the user row, then attaches the optional icon. The icon
// file is written under a temporary name first and renamed once the row has
// committed, so a failed insert never leaves a permanent file behind. A
// failed rename removes the temp file and the user simply has no icon;
// registration itself still succeeds.
func (s *Service) Register(in RegisterInput, icon *multipart.FileHeader) (*models.UserModel, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var tempName string
	if icon != nil && icon.Filename != "" {
		tempName = media.TempName(icon.Filename)
		if err := s.store.Save(media.KindIcon, tempName, icon); err != nil {
			s.logger.Warn("icon upload failed, registering without icon", zap.Error(err))
			tempName = ""
		}
	}

	u := models.UserModel{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hash),
	}
	if err := s.db.Create(&u).Error; err != nil {
		if tempName != "" {
			_ = s.store.Remove(media.KindIcon, tempName)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errEmailTaken
		}
		return nil, err
	}

	if tempName != "" {
		finalName := media.BuildName("icon", u.ID, icon.Filename, time.Now())
		if err := s.store.Rename(media.KindIcon, tempName, finalName); err != nil {
			s.logger.Warn("icon rename failed, user left without icon",
				zap.String("user_id", u.ID), zap.Error(err))
		} else if err := s.db.Model(&u).Update("icon", finalName).Error; err != nil {
			s.logger.Warn("icon column update failed",
				zap.String("user_id", u.ID), zap.Error(err))
		} else {
			u.Icon = &finalName
		}
	}

	return &u, nil
}

// EmailTaken reports whether a live account already uses the address.
func (s *Service) EmailTaken(email string) (bool, error) {
	var count int64
	err := s.db.Model(&models.UserModel{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Login verifies the password and issues a session token.
func (s *Service) Login(in LoginInput, ip, ua string) (string, error) {
	var u models.UserModel
	if err := s.db.Select("id, password").Where("email = ?", in.Email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errUserNotFound
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Password)); err != nil {
		return "", errWrongPassword
	}
	token, _, err := sessionpkg.Issue(s.db, u.ID, ip, ua, sessionpkg.DefaultTTL)
	return token, err
}

// Logout revokes the session behind the cookie.
func (s *Service) Logout(userID, sessionID string) {
	if err := sessionpkg.Revoke(s.db, userID, sessionID); err != nil {
		s.logger.Warn("session revoke failed",
			zap.String("user_id", userID), zap.Error(err))
	}
}
