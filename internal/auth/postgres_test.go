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
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakePG keeps upserted rows in memory.
type fakePG struct {
	mu       sync.Mutex
	rows     map[string]Credentials
	queryErr error
	execErr  error
	execs    []string
}

func newFakePG() *fakePG {
	return &fakePG{rows: make(map[string]Credentials)}
}

func (f *fakePG) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, sql)
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	if len(args) == 3 {
		f.rows[args[0].(string)] = Credentials{Username: args[1].(string), Password: args[2].(string)}
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakePG) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return fakeRow{err: f.queryErr}
	}
	c, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{vals: []string{c.Username, c.Password}}
}

type fakeRow struct {
	vals []string
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		*d.(*string) = r.vals[i]
	}
	return nil
}

// TestPostgresSource_SeedThenFetch verifies seeded credentials are served back.
func TestPostgresSource_SeedThenFetch(t *testing.T) {
	db := newFakePG()
	src := &PostgresSource{pool: db}

	err := src.Seed(context.Background(), map[string]Credentials{
		"/zendesk/webhook": {Username: "test_user", Password: "test_password"},
	})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if len(db.execs) != 1 || !strings.Contains(db.execs[0], "ON CONFLICT (name) DO UPDATE") {
		t.Errorf("unexpected statements: %v", db.execs)
	}

	creds, err := src.Fetch(context.Background(), "/zendesk/webhook")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if creds != (Credentials{Username: "test_user", Password: "test_password"}) {
		t.Errorf("creds = %+v", creds)
	}

	// A second seed replaces the stored pair.
	if err := src.Seed(context.Background(), map[string]Credentials{
		"/zendesk/webhook": {Username: "test_user", Password: "rotated"},
	}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if creds, _ := src.Fetch(context.Background(), "/zendesk/webhook"); creds.Password != "rotated" {
		t.Errorf("password = %q, want rotated", creds.Password)
	}
}

// TestPostgresSource_FetchErrors verifies missing rows and query failures
// are told apart.
func TestPostgresSource_FetchErrors(t *testing.T) {
	db := newFakePG()
	src := &PostgresSource{pool: db}

	_, err := src.Fetch(context.Background(), "/missing")
	if !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("missing row error = %v, want ErrCredentialsNotFound", err)
	}

	db.queryErr = errors.New("connection reset")
	_, err = src.Fetch(context.Background(), "/missing")
	if err == nil || errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("query failure error = %v", err)
	}
}

// TestPostgresSource_SeedError verifies a failed upsert names the entry.
func TestPostgresSource_SeedError(t *testing.T) {
	db := newFakePG()
	db.execErr = errors.New("read-only transaction")
	src := &PostgresSource{pool: db}

	err := src.Seed(context.Background(), map[string]Credentials{"/zendesk/webhook": {Username: "u", Password: "p"}})
	if err == nil || !strings.Contains(err.Error(), "/zendesk/webhook") {
		t.Errorf("Seed error = %v", err)
	}
}

// TestPostgresSource_EnsureSchema verifies the table DDL is issued.
func TestPostgresSource_EnsureSchema(t *testing.T) {
	db := newFakePG()
	if err := (&PostgresSource{pool: db}).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if len(db.execs) != 1 || !strings.Contains(db.execs[0], "CREATE TABLE IF NOT EXISTS webhook_credentials") {
		t.Errorf("unexpected statements: %v", db.execs)
	}
}
