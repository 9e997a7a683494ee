package postgres

import "errors"

var (
	ErrFailedToParseDBConfig    = errors.New("postgres: failed to parse database configuration")
	ErrFailedToOpenDBConnection = errors.New("postgres: failed to open database connection")
	ErrHealthcheckFailed        = errors.New("postgres: healthcheck failed")
	ErrSetDialect               = errors.New("postgres migrator: failed to set dialect")
	ErrApplyMigrations          = errors.New("postgres migrator: failed to apply migrations")
)
