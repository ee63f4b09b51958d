package database

// Schema changes are applied once at startup through a versioned migration
// table rather than being patched lazily at request time.  Each migration is
// a single statement batch identified by an increasing version number; the
// schema_migrations table records which versions have already run, so
// restarting the server is always safe.

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "create users",
		stmts: []string{`
CREATE TABLE IF NOT EXISTS users (
  id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
  email VARCHAR(255) NOT NULL,
  password_hash VARCHAR(255) NOT NULL,
  role VARCHAR(16) NOT NULL DEFAULT 'client',
  email_verified TINYINT(1) NOT NULL DEFAULT 0,
  verification_code VARCHAR(6) NULL,
  verification_code_expires DATETIME NULL,
  verification_code_sent_at DATETIME NULL,
  failed_login_attempts INT NOT NULL DEFAULT 0,
  locked_until DATETIME NULL,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  PRIMARY KEY (id),
  UNIQUE KEY uq_users_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	},
	{
		version: 2,
		name:    "create refresh_tokens",
		stmts: []string{`
CREATE TABLE IF NOT EXISTS refresh_tokens (
  id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
  user_id BIGINT UNSIGNED NOT NULL,
  token_hash CHAR(64) NOT NULL,
  expires_at DATETIME NOT NULL,
  revoked_at DATETIME NULL,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (id),
  UNIQUE KEY uq_refresh_tokens_hash (token_hash),
  KEY idx_refresh_tokens_user (user_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	},
	{
		version: 3,
		name:    "create tickets",
		stmts: []string{`
CREATE TABLE IF NOT EXISTS tickets (
  uid CHAR(10) NOT NULL,
  created_by VARCHAR(255) NOT NULL,
  issue_type VARCHAR(64) NOT NULL DEFAULT '',
  current_condition VARCHAR(64) NOT NULL DEFAULT '',
  priority VARCHAR(16) NOT NULL,
  status_badge VARCHAR(16) NOT NULL DEFAULT 'Open',
  selected_event VARCHAR(64) NOT NULL DEFAULT '',
  client_note TEXT NOT NULL,
  assignee VARCHAR(255) NULL,
  current_condition_by_admin VARCHAR(255) NULL,
  problem_solved_at VARCHAR(64) NULL,
  action_taken TEXT NULL,
  time_taken_to_solve VARCHAR(64) NULL,
  related_tickets TEXT NULL,
  attachments TEXT NULL,
  comments MEDIUMTEXT NULL,
  communication_channel VARCHAR(64) NULL,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  PRIMARY KEY (uid),
  KEY idx_tickets_created_by (created_by)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	},
	{
		version: 4,
		name:    "create ticket_categories",
		stmts: []string{`
CREATE TABLE IF NOT EXISTS ticket_categories (
  id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
  type VARCHAR(16) NOT NULL,
  value VARCHAR(64) NOT NULL,
  label VARCHAR(128) NOT NULL,
  description VARCHAR(255) NULL,
  sort_order INT NULL,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  PRIMARY KEY (id),
  UNIQUE KEY uq_categories_type_value (type, value)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	},
}

// Migrate applies all pending migrations in version order.  It is called
// once from main before the HTTP server starts accepting requests.
func Migrate(ctx context.Context, db *sql.DB) error {
	const table = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INT NOT NULL,
  name VARCHAR(128) NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (version)
) ENGINE=InnoDB`
	if _, err := db.ExecContext(ctx, table); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM schema_migrations WHERE version=?", m.version).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.version, err)
		}
		if exists > 0 {
			continue
		}
		for _, stmt := range m.stmts {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply migration %d (%s): %w", m.version, m.name, err)
			}
		}
		if _, err := db.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, name) VALUES (?,?)", m.version, m.name); err != nil {
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		log.Printf("migration %d applied: %s", m.version, m.name)
	}
	return nil
}
