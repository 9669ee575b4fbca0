// Package service implements the auth gate core: credential storage access,
// session lifecycle, path-prefix authorization and the register/login/logout
// flows on top of them.
package service

import (
	"authgate/database"
	"authgate/database/model"

	"gorm.io/gorm"
)

// UserService is the persistence-facing adapter for users and their role
// associations. No business logic lives here.
type UserService struct{}

func (s *UserService) FindByUsername(username string) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ?", username).
		Preload("UserRoles", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("role_id ASC")
		}).
		Preload("UserRoles.Role").
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) FindByName(name string) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("name = ?", name).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// Create stores a new user and associates it with the named role. Fails
// with ErrConflict when the name or username is already taken.
func (s *UserService) Create(name, username, passwordHash, roleName string) (*model.User, error) {
	db := database.GetDB()

	var count int64
	err := db.Model(model.User{}).
		Where("name = ? OR username = ?", name, username).
		Count(&count).
		Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrConflict
	}

	role := &model.Role{}
	if err := db.Where("name = ?", roleName).First(role).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	user := &model.User{
		Name:         name,
		Username:     username,
		PasswordHash: passwordHash,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	if err := db.Create(&model.UserRole{UserId: user.Id, RoleId: role.Id}).Error; err != nil {
		return nil, err
	}
	return s.FindByUsername(username)
}

// UpdateCredentials sets the username and password hash on the user row
// identified by its natural key.
func (s *UserService) UpdateCredentials(name, username, passwordHash string) (*model.User, error) {
	db := database.GetDB()

	err := db.Model(model.User{}).
		Where("name = ?", name).
		Updates(map[string]any{"username": username, "password_hash": passwordHash}).
		Error
	if err != nil {
		return nil, err
	}
	return s.FindByUsername(username)
}

// AssignRole associates the user with the named role unless an association
// already exists.
func (s *UserService) AssignRole(userId int, roleName string) error {
	db := database.GetDB()

	role := &model.Role{}
	if err := db.Where("name = ?", roleName).First(role).Error; err != nil {
		if database.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}

	var count int64
	err := db.Model(model.UserRole{}).
		Where("user_id = ? AND role_id = ?", userId, role.Id).
		Count(&count).
		Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&model.UserRole{UserId: userId, RoleId: role.Id}).Error
}

// Roles returns the user's role associations ordered by privilege, most
// privileged first.
func (s *UserService) Roles(userId int) ([]model.Role, error) {
	db := database.GetDB()

	var roles []model.Role
	err := db.Model(model.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userId).
		Order("roles.id ASC").
		Find(&roles).
		Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}
