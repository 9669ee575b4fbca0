package service

import (
	"strings"

	"authgate/config"
	"authgate/database"
	"authgate/database/model"
)

// AccessService evaluates the role-based path ACL. Matching is a literal,
// case-sensitive prefix check: "/admin" matches "/admin/users" but not
// "/administration" unless that is listed as its own rule. No wildcards.
type AccessService struct{}

// Paths returns the registered path prefixes for a role.
func (s *AccessService) Paths(roleId int) ([]string, error) {
	db := database.GetDB()

	var rules []model.AccessRule
	err := db.Model(model.AccessRule{}).
		Where("role_id = ?", roleId).
		Find(&rules).
		Error
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(rules))
	for _, rule := range rules {
		paths = append(paths, rule.Path)
	}
	return paths, nil
}

// IsAllowed reports whether at least one of the role's registered prefixes
// is a prefix of requestPath. A role with no rules denies everything. A
// zero roleId falls back to the configured guest role.
func (s *AccessService) IsAllowed(roleId int, requestPath string) (bool, error) {
	if roleId == 0 {
		roleId = config.GetGuestRoleID()
	}

	paths, err := s.Paths(roleId)
	if err != nil {
		return false, err
	}
	for _, path := range paths {
		if strings.HasPrefix(requestPath, path) {
			return true, nil
		}
	}
	return false, nil
}
