// Package config exposes the environment-driven configuration surface of the
// auth gate: debug mode, log level, database and log locations, listen
// address, session TTL and the guest fallback role.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

// DefaultSessionTTL is the sliding session lifetime applied when
// AG_SESSION_TTL is not set.
const DefaultSessionTTL = 2 * time.Hour

// DefaultGuestRoleID is the id of the seeded low-privilege Guest role. It is
// only consulted when a permission check is made without a resolved role and
// never grants elevated access.
const DefaultGuestRoleID = 6

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("AG_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("AG_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("AG_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/authgate"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("AG_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

func GetListen() string {
	return os.Getenv("AG_LISTEN")
}

func GetPort() int {
	port, err := strconv.Atoi(os.Getenv("AG_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

// GetBasePath returns the URL prefix all routes are mounted under, always
// with leading and trailing slashes.
func GetBasePath() string {
	basePath := os.Getenv("AG_BASE_PATH")
	if basePath == "" {
		return "/"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	return basePath
}

// GetSessionTTL returns the sliding session lifetime. Accepts any
// time.ParseDuration string in AG_SESSION_TTL.
func GetSessionTTL() time.Duration {
	ttl, err := time.ParseDuration(os.Getenv("AG_SESSION_TTL"))
	if err != nil || ttl <= 0 {
		return DefaultSessionTTL
	}
	return ttl
}

// GetGuestRoleID returns the role id used for permission checks when no role
// could be resolved for the caller.
func GetGuestRoleID() int {
	id, err := strconv.Atoi(os.Getenv("AG_GUEST_ROLE_ID"))
	if err != nil || id <= 0 {
		return DefaultGuestRoleID
	}
	return id
}
