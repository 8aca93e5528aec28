// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgQuerier is the subset of *pgxpool.Pool used by PostgresSource.
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresSource keeps webhook credentials in the webhook_credentials table.
type PostgresSource struct {
	pool pgQuerier
}

// NewPostgresSource creates a credential source backed by the given pool.
// It ensures the table exists on creation.
func NewPostgresSource(ctx context.Context, pool *pgxpool.Pool) (*PostgresSource, error) {
	s := &PostgresSource{pool: pool}
	if err := s.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure credential schema: %w", err)
	}
	slog.Info("credential store initialised")
	return s, nil
}

// EnsureSchema creates the credentials table if it is missing.
func (s *PostgresSource) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS webhook_credentials (
			name       TEXT PRIMARY KEY,
			username   TEXT NOT NULL,
			password   TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);
	`)
	return err
}

// Upsert stores credentials under name, replacing any existing entry.
func (s *PostgresSource) Upsert(ctx context.Context, name string, creds Credentials) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO webhook_credentials (name, username, password)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET
			username   = EXCLUDED.username,
			password   = EXCLUDED.password,
			updated_at = NOW()
	`, name, creds.Username, creds.Password)
	return err
}

// Seed upserts every entry of creds. It is used to provision the table from
// configuration on first deployment.
func (s *PostgresSource) Seed(ctx context.Context, creds map[string]Credentials) error {
	for name, c := range creds {
		if err := s.Upsert(ctx, name, c); err != nil {
			return fmt.Errorf("seed credentials %s: %w", name, err)
		}
	}
	slog.Info("credential store seeded", "entries", len(creds))
	return nil
}

// Fetch implements Source.
func (s *PostgresSource) Fetch(ctx context.Context, name string) (Credentials, error) {
	var creds Credentials
	err := s.pool.QueryRow(ctx, `
		SELECT username, password
		FROM webhook_credentials
		WHERE name = $1
	`, name).Scan(&creds.Username, &creds.Password)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credentials{}, fmt.Errorf("%w: %s", ErrCredentialsNotFound, name)
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("query credentials %s: %w", name, err)
	}
	return creds, nil
}
