package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  email      TEXT        NOT NULL UNIQUE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  filename      TEXT        NOT NULL,
  description   TEXT,
  content_type  TEXT        NOT NULL,
  size          BIGINT      NOT NULL CHECK (size >= 0),
  storage_path  TEXT        NOT NULL UNIQUE,
  content_hash  TEXT        NOT NULL,
  is_encrypted  BOOLEAN     NOT NULL DEFAULT TRUE,
  encryption_iv TEXT        NOT NULL DEFAULT '',
  owner_id      UUID        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_owner_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_owner_id ON documents (owner_id);`,
	},
	{
		Name: "create_index_documents_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at);`,
	},
	{
		Name: "create_table_access_links",
		SQL: `CREATE TABLE IF NOT EXISTS access_links (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  token         TEXT        NOT NULL UNIQUE,
  document_id   UUID        NOT NULL REFERENCES documents (id),
  created_by    UUID        NOT NULL,
  expires_at    TIMESTAMPTZ,
  max_views     INTEGER     NOT NULL DEFAULT 0 CHECK (max_views >= 0),
  current_views INTEGER     NOT NULL DEFAULT 0 CHECK (current_views >= 0),
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  CHECK (max_views = 0 OR current_views <= max_views)
);`,
	},
	{
		Name: "create_index_access_links_document_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_access_links_document_id ON access_links (document_id);`,
	},
	{
		Name: "create_index_access_links_created_by",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_access_links_created_by ON access_links (created_by);`,
	},
	{
		Name: "create_table_audit_logs",
		SQL: `CREATE TABLE IF NOT EXISTS audit_logs (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  action         TEXT        NOT NULL CHECK (action IN ('UPLOAD', 'DOWNLOAD', 'VIEW', 'SHARE', 'DELETE', 'UPDATE')),
  user_id        UUID,
  access_link_id UUID,
  document_id    UUID        NOT NULL,
  ip_address     TEXT,
  user_agent     TEXT,
  timestamp      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_audit_logs_document_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_logs_document_id ON audit_logs (document_id);`,
	},
	{
		Name: "create_index_audit_logs_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_logs_user_id ON audit_logs (user_id);`,
	},
	{
		Name: "create_index_audit_logs_timestamp",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_logs_timestamp ON audit_logs (timestamp);`,
	},
}

// EnsureMigrated checks if the 'documents' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	start := time.Now()

	var exists bool
	query := "SELECT to_regclass('public.documents') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("schema already exists, skipping migration",
			zap.Duration("duration", time.Since(start)))
		return nil
	}

	log.Info("running schema migration", zap.Int("steps", len(steps)))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("migration step failed",
				zap.String("migration_step", step.Name),
				zap.Error(err))
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("migration step applied",
			zap.String("migration_step", step.Name),
			zap.Duration("step_duration", time.Since(stepStart)))
	}

	log.Info("schema migration complete", zap.Duration("duration", time.Since(start)))
	return nil
}
