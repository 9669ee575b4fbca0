package service

import (
	"authgate/database/model"
	"authgate/logger"
	"authgate/util/crypto"
)

// DefaultRegisterRole is assigned when registration does not name a role.
const DefaultRegisterRole = "User"

// AuthService implements the credential flows: register, login, logout.
type AuthService struct {
	userService    UserService
	sessionService SessionService
}

// Register validates the request, then either claims an existing placeholder
// user (a row with the given name but no username yet) or creates a new one
// associated with the requested role. A name that already carries a username
// is a conflict.
func (s *AuthService) Register(name, username, password, role string) (*model.User, error) {
	if name == "" || username == "" || password == "" {
		return nil, ErrValidation
	}
	if role == "" {
		role = DefaultRegisterRole
	}

	existing, err := s.userService.FindByName(name)
	if err != nil && err != ErrNotFound {
		return nil, err
	}
	if existing != nil && existing.Username != "" {
		return nil, ErrConflict
	}

	if taken, err := s.userService.FindByUsername(username); err == nil && taken != nil {
		return nil, ErrConflict
	} else if err != nil && err != ErrNotFound {
		return nil, err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		user, err := s.userService.UpdateCredentials(name, username, hash)
		if err != nil {
			return nil, err
		}
		// A claimed placeholder may not carry a role yet; registration must
		// leave every user with at least one.
		if len(user.UserRoles) == 0 {
			if err := s.userService.AssignRole(user.Id, role); err != nil {
				return nil, err
			}
			return s.userService.FindByUsername(username)
		}
		return user, nil
	}
	return s.userService.Create(name, username, hash, role)
}

// Login checks the credentials and issues a session. An unknown username is
// ErrNotFound, a wrong password ErrInvalidCredentials; a stored hash bcrypt
// cannot parse surfaces as crypto.ErrCorruptHash.
func (s *AuthService) Login(username, password string) (*model.Session, error) {
	if username == "" || password == "" {
		return nil, ErrValidation
	}

	user, err := s.userService.FindByUsername(username)
	if err != nil {
		return nil, err
	}

	ok, err := crypto.CheckPasswordHash(user.PasswordHash, password)
	if err != nil {
		logger.Error("stored hash for", username, "is unreadable:", err)
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.sessionService.Create(username)
}

// Logout deletes the session. Always succeeds from the caller's view, even
// when the token is already gone.
func (s *AuthService) Logout(token string) error {
	return s.sessionService.Delete(token)
}
