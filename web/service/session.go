package service

import (
	"time"

	"authgate/config"
	"authgate/database"
	"authgate/database/model"
	"authgate/logger"

	"github.com/google/uuid"
)

// SessionService owns the session lifecycle: Active -> Expired -> Deleted,
// or Active -> Deleted on explicit logout. The session row in the database
// is the single source of truth; every operation is one atomic statement.
type SessionService struct {
	userService UserService
}

// Create issues a fresh session for username with a random unguessable
// token, valid for the configured TTL.
func (s *SessionService) Create(username string) (*model.Session, error) {
	db := database.GetDB()

	session := &model.Session{
		Id:        uuid.NewString(),
		Username:  username,
		ExpiresAt: time.Now().Add(config.GetSessionTTL()),
	}
	if err := db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// Resolve looks up a session by token and joins the owning user with its
// roles. An unknown token yields ErrNotFound regardless of whether it is
// well-formed, so callers cannot probe for token existence. An expired
// session is deleted before ErrSessionExpired is returned; the deletion
// happens before any authorization decision can be made on it.
func (s *SessionService) Resolve(token string) (*model.User, *model.Session, error) {
	db := database.GetDB()

	session := &model.Session{}
	err := db.Model(model.Session{}).
		Where("id = ?", token).
		First(session).
		Error
	if database.IsNotFound(err) {
		return nil, nil, ErrNotFound
	} else if err != nil {
		return nil, nil, err
	}

	if s.IsExpired(session) {
		if err := s.ExpireAndDelete(session); err != nil {
			// Lost a race with another deletion; the outcome is the same.
			logger.Warning("delete expired session err:", err)
		}
		return nil, nil, ErrSessionExpired
	}

	user, err := s.userService.FindByUsername(session.Username)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// IsExpired reports whether the session's expiry is not in the future.
func (s *SessionService) IsExpired(session *model.Session) bool {
	return !session.ExpiresAt.After(time.Now())
}

// ExpireAndDelete removes the session row. Deleting an already-deleted
// session is not an error.
func (s *SessionService) ExpireAndDelete(session *model.Session) error {
	db := database.GetDB()
	return db.Where("id = ?", session.Id).Delete(&model.Session{}).Error
}

// Refresh slides the expiry window forward: expiresAt becomes now + TTL,
// measured from the refresh call, not from creation.
func (s *SessionService) Refresh(session *model.Session) error {
	db := database.GetDB()

	expiresAt := time.Now().Add(config.GetSessionTTL())
	err := db.Model(model.Session{}).
		Where("id = ?", session.Id).
		Update("expires_at", expiresAt).
		Error
	if err != nil {
		return err
	}
	session.ExpiresAt = expiresAt
	return nil
}

// Delete is the logout path. Idempotent: a token that is already gone
// still reports success.
func (s *SessionService) Delete(token string) error {
	db := database.GetDB()
	return db.Where("id = ?", token).Delete(&model.Session{}).Error
}

// DeleteExpired purges every session whose expiry is at or before the given
// instant. Returns the number of rows removed.
func (s *SessionService) DeleteExpired(before time.Time) (int64, error) {
	db := database.GetDB()

	result := db.Where("expires_at <= ?", before).Delete(&model.Session{})
	return result.RowsAffected, result.Error
}
