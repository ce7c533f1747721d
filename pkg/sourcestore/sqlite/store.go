package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"codeberg.org/miketth/inputdeck/pkg/inputsource"
	"codeberg.org/miketth/inputdeck/pkg/sourcestore/sqlite/migrations"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

type HistoryStore struct {
	db *sql.DB
}

func NewHistoryStore(filename string, log *zap.SugaredLogger) (*HistoryStore, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := migrations.Migrate(db, log); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &HistoryStore{db: db}, nil
}

func (s *HistoryStore) Close() error {
	return s.db.Close()
}

func (s *HistoryStore) RecordSelection(id string, name string) error {
	_, err := s.db.ExecContext(context.Background(),
		`insert into selections (source_id, source_name) values (?, ?)`, id, name)
	if err != nil {
		return fmt.Errorf("sqlite insert: %w", err)
	}

	return nil
}

func (s *HistoryStore) LastSelected() (string, error) {
	var id string
	err := s.db.QueryRowContext(context.Background(),
		`select source_id from selections order by id desc limit 1`).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("sqlite select: %w", err)
	}

	return id, nil
}

func (s *HistoryStore) History(limit int) ([]inputsource.Selection, error) {
	rows, err := s.db.QueryContext(context.Background(),
		`select source_id, source_name, selected_at from selections order by id desc limit ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite select: %w", err)
	}
	defer rows.Close()

	var out []inputsource.Selection
	for rows.Next() {
		var sel inputsource.Selection
		if err := rows.Scan(&sel.ID, &sel.Name, &sel.At); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, sel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return out, nil
}
