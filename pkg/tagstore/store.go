// Copyright 2025 walteh LLC
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

// Package tagstore persists where relocated items ended up: one record per
// tagged file and one per trashed file, in a SQLite database.
package tagstore

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const busyTimeout = 5000 // milliseconds

// ErrNotFound is returned when no record exists for a destination
var ErrNotFound = errors.Base("record not found")

// 🏷️ Tag associates a relocated file with its category
type Tag struct {
	ID          int64
	Destination string
	Category    string
	Original    string
	CreatedAt   time.Time
}

// 🗑️ TrashEntry remembers where a trashed file came from
type TrashEntry struct {
	ID          int64
	Destination string
	Original    string
	TrashedAt   time.Time
}

// 📁 Folder summarizes one category
type Folder struct {
	Category string
	Count    int
}

// 💾 Store is the SQLite-backed tag store and trash ledger
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// 🏭 Open opens or creates the database at path
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Errorf("opening database: %w", err)
	}
	// one writer at a time; relocation workers record concurrently
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout),
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, errors.Errorf("configuring database: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, errors.Errorf("initializing schema: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("opened tag store")
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordTag stores a tagged destination. Recording the same destination
// again replaces the previous record. A tag held by original is dropped
// since the file has left that place.
func (s *Store) RecordTag(ctx context.Context, destination, category, original string) error {
	if err := s.forget(ctx, destination, original); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (destination, category, original, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(destination) DO UPDATE SET category = excluded.category, original = excluded.original, created_at = excluded.created_at`,
		destination, category, original, s.now().UTC(),
	)
	if err != nil {
		return errors.Errorf("inserting tag: %w", err)
	}
	return nil
}

// RecordTrash stores a trashed destination and its original location
func (s *Store) RecordTrash(ctx context.Context, destination, original string) error {
	if err := s.forget(ctx, destination, original); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trash (destination, original, trashed_at) VALUES (?, ?, ?)
		 ON CONFLICT(destination) DO UPDATE SET original = excluded.original, trashed_at = excluded.trashed_at`,
		destination, original, s.now().UTC(),
	)
	if err != nil {
		return errors.Errorf("inserting trash entry: %w", err)
	}
	return nil
}

// Categories returns every category ever used, sorted
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT category FROM tags ORDER BY category`)
	if err != nil {
		return nil, errors.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, errors.Errorf("scanning category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("iterating categories: %w", err)
	}
	return out, nil
}

// Folders returns each category with its number of files, sorted by name
func (s *Store) Folders(ctx context.Context) ([]Folder, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM tags GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, errors.Errorf("querying folders: %w", err)
	}
	defer rows.Close()

	var out []Folder
	for rows.Next() {
		var f Folder
		if err := rows.Scan(&f.Category, &f.Count); err != nil {
			return nil, errors.Errorf("scanning folder: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("iterating folders: %w", err)
	}
	return out, nil
}

// Tags returns the records of a category, newest first
func (s *Store) Tags(ctx context.Context, category string) ([]Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, destination, category, original, created_at FROM tags WHERE category = ? ORDER BY id DESC`,
		category,
	)
	if err != nil {
		return nil, errors.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	var out []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Destination, &t.Category, &t.Original, &t.CreatedAt); err != nil {
			return nil, errors.Errorf("scanning tag: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("iterating tags: %w", err)
	}
	return out, nil
}

// DeleteTag removes the record of a tagged destination
func (s *Store) DeleteTag(ctx context.Context, destination string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE destination = ?`, destination); err != nil {
		return errors.Errorf("deleting tag: %w", err)
	}
	return nil
}

func (s *Store) forget(ctx context.Context, destination, original string) error {
	if original == "" || original == destination {
		return nil
	}
	return s.DeleteTag(ctx, original)
}

// TrashEntries returns every trashed file, newest first
func (s *Store) TrashEntries(ctx context.Context) ([]TrashEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, destination, original, trashed_at FROM trash ORDER BY id DESC`)
	if err != nil {
		return nil, errors.Errorf("querying trash: %w", err)
	}
	defer rows.Close()

	var out []TrashEntry
	for rows.Next() {
		var e TrashEntry
		if err := rows.Scan(&e.ID, &e.Destination, &e.Original, &e.TrashedAt); err != nil {
			return nil, errors.Errorf("scanning trash entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("iterating trash: %w", err)
	}
	return out, nil
}

// TrashEntry returns the record for a trashed destination
func (s *Store) TrashEntry(ctx context.Context, destination string) (TrashEntry, error) {
	var e TrashEntry
	err := s.db.QueryRowContext(ctx,
		`SELECT id, destination, original, trashed_at FROM trash WHERE destination = ?`, destination,
	).Scan(&e.ID, &e.Destination, &e.Original, &e.TrashedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return TrashEntry{}, errors.WithStack(ErrNotFound)
	}
	if err != nil {
		return TrashEntry{}, errors.Errorf("querying trash entry: %w", err)
	}
	return e, nil
}

// DeleteTrashEntry forgets a trashed destination
func (s *Store) DeleteTrashEntry(ctx context.Context, destination string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM trash WHERE destination = ?`, destination); err != nil {
		return errors.Errorf("deleting trash entry: %w", err)
	}
	return nil
}
