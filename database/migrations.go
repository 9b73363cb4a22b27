package database

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func runSQL(tx *gorm.DB, statements ...string) error {
	for _, stmt := range statements {
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}

func dropTables(tables ...string) func(*gorm.DB) error {
	return func(tx *gorm.DB) error {
		for _, t := range tables {
			if err := tx.Migrator().DropTable(t); err != nil {
				return err
			}
		}
		return nil
	}
}

// create catalog tables
var migration001 = &gormigrate.Migration{
	ID: "001_create_catalog",
	Migrate: func(tx *gorm.DB) error {
		return runSQL(tx,
			`CREATE TABLE IF NOT EXISTS projects
(
   slug          TEXT PRIMARY KEY,
   title         TEXT NOT NULL,
   subtitle      TEXT NOT NULL DEFAULT '',
   details       TEXT NOT NULL DEFAULT '',
   installation  TEXT NOT NULL DEFAULT '',
   tools         JSONB NOT NULL DEFAULT '[]',
   price         TEXT NOT NULL,
   discount      TEXT NOT NULL DEFAULT '',
   category      TEXT NOT NULL,
   tags          JSONB NOT NULL DEFAULT '[]',
   is_public     BOOLEAN NOT NULL DEFAULT FALSE,
   created_by    TEXT NOT NULL DEFAULT '',
   created_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
   updated_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
   CONSTRAINT projects_category_enum CHECK (category IN ('android', 'ios', 'desktop', 'web'))
)`,
			`CREATE INDEX IF NOT EXISTS idx_projects_is_public ON projects(is_public)`,
			`CREATE INDEX IF NOT EXISTS idx_projects_category ON projects(category)`,
			`CREATE TABLE IF NOT EXISTS tags
(
   id    TEXT PRIMARY KEY,
   name  TEXT NOT NULL
)`,
			`CREATE TABLE IF NOT EXISTS app_lab
(
   slug         TEXT PRIMARY KEY,
   name         TEXT NOT NULL,
   subtitle     TEXT NOT NULL DEFAULT '',
   version      TEXT NOT NULL DEFAULT '',
   platform     TEXT NOT NULL DEFAULT 'android',
   apk_url      TEXT NOT NULL,
   description  TEXT NOT NULL DEFAULT '',
   usages       JSONB NOT NULL DEFAULT '[]',
   warnings     JSONB NOT NULL DEFAULT '[]',
   images       JSONB NOT NULL DEFAULT '[]',
   is_public    BOOLEAN NOT NULL DEFAULT FALSE,
   created_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
   updated_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		)
	},
	Rollback: dropTables("app_lab", "tags", "projects"),
}

// create account tables
var migration002 = &gormigrate.Migration{
	ID: "002_create_accounts",
	Migrate: func(tx *gorm.DB) error {
		return runSQL(tx,
			`CREATE TABLE IF NOT EXISTS users
(
   uid         TEXT PRIMARY KEY,
   full_name   TEXT NOT NULL DEFAULT '',
   email       TEXT NOT NULL,
   mobile      TEXT NOT NULL DEFAULT '',
   address     TEXT NOT NULL DEFAULT '',
   created_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
   updated_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
   CONSTRAINT users_mobile_format CHECK (mobile = '' OR mobile ~ '^01[0-9]{9}$')
)`,
			`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
			`CREATE TABLE IF NOT EXISTS credentials
(
   uid               TEXT PRIMARY KEY,
   email             TEXT NOT NULL,
   password_hash     TEXT NOT NULL,
   display_name      TEXT NOT NULL DEFAULT '',
   role              TEXT NOT NULL DEFAULT 'customer',
   reset_code_hash   TEXT,
   reset_expires_at  TIMESTAMPTZ,
   created_at        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
   CONSTRAINT credentials_role_enum CHECK (role IN ('customer', 'admin'))
)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_credentials_email ON credentials(email)`,
		)
	},
	Rollback: dropTables("credentials", "users"),
}

// create purchases and reviews
var migration003 = &gormigrate.Migration{
	ID: "003_create_purchases_reviews",
	Migrate: func(tx *gorm.DB) error {
		return runSQL(tx,
			`CREATE TABLE IF NOT EXISTS purchases
(
   id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
   user_id         TEXT NOT NULL,
   user_email      TEXT NOT NULL DEFAULT '',
   project_name    TEXT NOT NULL,
   payment_type    TEXT NOT NULL,
   payment_date    TEXT NOT NULL,
   discount        TEXT NOT NULL,
   total_amount    TEXT NOT NULL,
   transaction_id  TEXT NOT NULL,
   created_at      TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_purchases_transaction_id ON purchases(transaction_id)`,
			`CREATE INDEX IF NOT EXISTS idx_purchases_user_id ON purchases(user_id)`,
			`CREATE TABLE IF NOT EXISTS reviews
(
   id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
   review_text    TEXT NOT NULL,
   reviewer_name  TEXT NOT NULL,
   rating         INTEGER NOT NULL,
   user_id        TEXT NOT NULL,
   created_at     TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
   CONSTRAINT chk_reviews_rating CHECK (rating BETWEEN 1 AND 5)
)`,
			`CREATE INDEX IF NOT EXISTS idx_reviews_created_at ON reviews(created_at)`,
		)
	},
	Rollback: dropTables("reviews", "purchases"),
}

var migrations = []*gormigrate.Migration{
	migration001,
	migration002,
	migration003,
}

// Migrate applies every pending migration in order.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations)
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
