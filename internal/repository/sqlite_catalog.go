package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/debot/internal/db"
	"github.com/alexanderramin/debot/internal/domain"
)

// SQLiteCatalogRepo implements CatalogRepo using a SQLite database.
type SQLiteCatalogRepo struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLiteCatalogRepo creates a catalog repository. uow is used by
// ReplaceCatalog; readers only need conn.
func NewSQLiteCatalogRepo(conn db.DBTX, uow db.UnitOfWork) *SQLiteCatalogRepo {
	return &SQLiteCatalogRepo{db: conn, uow: uow}
}

func (r *SQLiteCatalogRepo) ListModules(ctx context.Context) ([]domain.Module, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT idx, name, range_kind FROM modules ORDER BY idx`)
	if err != nil {
		return nil, fmt.Errorf("listing modules: %w", err)
	}
	defer rows.Close()

	var modules []domain.Module
	for rows.Next() {
		var m domain.Module
		var rng string
		if err := rows.Scan(&m.Index, &m.Name, &rng); err != nil {
			return nil, fmt.Errorf("scanning module: %w", err)
		}
		m.Range = domain.ModuleRange(rng)
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

func (r *SQLiteCatalogRepo) GetModule(ctx context.Context, index int) (*domain.Module, error) {
	row := r.db.QueryRowContext(ctx, `SELECT idx, name, range_kind FROM modules WHERE idx = ?`, index)

	var m domain.Module
	var rng string
	if err := row.Scan(&m.Index, &m.Name, &rng); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("module %d: %w", index, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning module %d: %w", index, err)
	}
	m.Range = domain.ModuleRange(rng)

	keywords, err := r.Keywords(ctx, index)
	if err != nil {
		return nil, err
	}
	lessons, err := r.Lessons(ctx, index)
	if err != nil {
		return nil, err
	}
	m.Keywords = keywords
	m.Lessons = lessons
	return &m, nil
}

func (r *SQLiteCatalogRepo) Keywords(ctx context.Context, index int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT keyword FROM module_keywords WHERE module_idx = ? ORDER BY keyword`, index)
	if err != nil {
		return nil, fmt.Errorf("listing keywords for module %d: %w", index, err)
	}
	defer rows.Close()

	keywords := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning keyword: %w", err)
		}
		keywords = append(keywords, k)
	}
	return keywords, rows.Err()
}

func (r *SQLiteCatalogRepo) Lessons(ctx context.Context, index int) ([]domain.Lesson, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT module_idx, position, title, duration FROM lessons
		WHERE module_idx = ? ORDER BY position`, index)
	if err != nil {
		return nil, fmt.Errorf("listing lessons for module %d: %w", index, err)
	}
	defer rows.Close()

	var lessons []domain.Lesson
	for rows.Next() {
		var l domain.Lesson
		if err := rows.Scan(&l.ModuleIndex, &l.Position, &l.Title, &l.Duration); err != nil {
			return nil, fmt.Errorf("scanning lesson: %w", err)
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

func (r *SQLiteCatalogRepo) ReplaceCatalog(ctx context.Context, modules []domain.Module) error {
	if r.uow == nil {
		return fmt.Errorf("replacing catalog: no unit of work configured")
	}
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM modules`); err != nil {
			return fmt.Errorf("clearing modules: %w", err)
		}
		for _, m := range modules {
			if err := insertModule(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertModule(ctx context.Context, tx db.DBTX, m domain.Module) error {
	rng := m.Range
	if rng == "" {
		rng = domain.RangeMain
	}
	if !rng.IsValid() {
		return fmt.Errorf("module %d: unknown range %q", m.Index, rng)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO modules (idx, name, range_kind) VALUES (?, ?, ?)`,
		m.Index, m.Name, string(rng)); err != nil {
		return fmt.Errorf("inserting module %d: %w", m.Index, err)
	}

	// Keyword sets are case-insensitive; store them lower-cased once.
	for _, k := range m.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO module_keywords (module_idx, keyword) VALUES (?, ?)`,
			m.Index, k); err != nil {
			return fmt.Errorf("inserting keyword %q for module %d: %w", k, m.Index, err)
		}
	}

	for pos, l := range m.Lessons {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO lessons (module_idx, position, title, duration) VALUES (?, ?, ?, ?)`,
			m.Index, pos, l.Title, l.Duration); err != nil {
			return fmt.Errorf("inserting lesson %q for module %d: %w", l.Title, m.Index, err)
		}
	}
	return nil
}
