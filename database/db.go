// Package database manages the sqlite database lifecycle: connection,
// migration and initial seeding of roles, access rules and the bootstrap
// admin account.
package database

import (
	"io/fs"
	"log"
	"os"
	"path"

	"authgate/config"
	"authgate/database/model"
	"authgate/util/crypto"
	"authgate/util/random"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

const defaultAdminName = "Administrator"

// seedRoles in descending privilege order; ids are assigned 1..n, so the
// last entry ("Guest") lands on config.DefaultGuestRoleID.
var seedRoles = []string{"Admin", "Moderator", "Editor", "Support", "User", "Guest"}

// seedRules is the initial path ACL per role name. Admin sees everything;
// User may reach its own profile and the session endpoints.
var seedRules = map[string][]string{
	"Admin": {"/"},
	"User":  {"/profile", "/session", "/logout"},
}

func initModels() error {
	models := []any{
		&model.User{},
		&model.Role{},
		&model.UserRole{},
		&model.AccessRule{},
		&model.Session{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			log.Printf("Error auto migrating model: %v", err)
			return err
		}
	}
	return nil
}

func initRoles() error {
	empty, err := isTableEmpty("roles")
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}
	for _, name := range seedRoles {
		if err := db.Create(&model.Role{Name: name}).Error; err != nil {
			return err
		}
	}
	for roleName, paths := range seedRules {
		role := &model.Role{}
		if err := db.Where("name = ?", roleName).First(role).Error; err != nil {
			return err
		}
		for _, p := range paths {
			if err := db.Create(&model.AccessRule{RoleId: role.Id, Path: p}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// initUser seeds a bootstrap admin with a random password, printed once so
// the operator can log in and change it.
func initUser() error {
	empty, err := isTableEmpty("users")
	if err != nil {
		log.Printf("Error checking if users table is empty: %v", err)
		return err
	}
	if !empty {
		return nil
	}

	password := random.Seq(16)
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	user := &model.User{
		Name:         defaultAdminName,
		Username:     "admin",
		PasswordHash: hash,
	}
	if err := db.Create(user).Error; err != nil {
		return err
	}

	adminRole := &model.Role{}
	if err := db.Where("name = ?", "Admin").First(adminRole).Error; err != nil {
		return err
	}
	if err := db.Create(&model.UserRole{UserId: user.Id, RoleId: adminRole.Id}).Error; err != nil {
		return err
	}

	log.Printf("generated admin credentials -> username: admin, password: %s", password)
	return nil
}

func isTableEmpty(tableName string) (bool, error) {
	var count int64
	err := db.Table(tableName).Count(&count).Error
	return count == 0, err
}

func InitDB(dbPath string) error {
	dir := path.Dir(dbPath)
	err := os.MkdirAll(dir, fs.ModePerm)
	if err != nil {
		return err
	}

	var gormLogger logger.Interface

	if config.IsDebug() {
		gormLogger = logger.Default
	} else {
		gormLogger = logger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}

	dsn := dbPath + "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL"
	db, err = gorm.Open(sqlite.Open(dsn), c)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	_, err = sqlDB.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		return err
	}

	if err := initModels(); err != nil {
		return err
	}
	if err := initRoles(); err != nil {
		return err
	}
	if err := initUser(); err != nil {
		return err
	}

	return nil
}

func CloseDB() error {
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

func GetDB() *gorm.DB {
	return db
}

func IsNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}
