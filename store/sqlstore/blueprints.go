package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/store"
)

func (s *Store) ListBlueprints(ctx context.Context) ([]model.Blueprint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, total_fields, created_at, updated_at
		FROM blueprint`)
	if err != nil {
		return nil, fmt.Errorf("db.get_blueprints: %w", err)
	}
	defer rows.Close()

	bps := []model.Blueprint{}
	for rows.Next() {
		bp, err := scanBlueprint(rows)
		if err != nil {
			return nil, err
		}
		bps = append(bps, bp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db.get_blueprints: %w", err)
	}

	fields, err := blueprintFields.load(ctx, s.db)
	if err != nil {
		return nil, err
	}
	for i := range bps {
		bps[i].Fields = fields[bps[i].ID]
	}
	store.SortBlueprints(bps)
	return bps, nil
}

func (s *Store) GetBlueprint(ctx context.Context, id string) (model.Blueprint, error) {
	return getBlueprint(ctx, s.db, id)
}

func getBlueprint(ctx context.Context, q queryer, id string) (model.Blueprint, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, name, description, total_fields, created_at, updated_at
		FROM blueprint
		WHERE id = ?`,
		id,
	)
	bp, err := scanBlueprint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return bp, fmt.Errorf("blueprint %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return bp, err
	}

	fields, err := blueprintFields.load(ctx, q, id)
	if err != nil {
		return bp, err
	}
	bp.Fields = fields[id]
	return bp, nil
}

func (s *Store) SaveBlueprint(ctx context.Context, bp model.Blueprint) (saved model.Blueprint, err error) {
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		createdAt, err := existingCreatedAt(ctx, tx, "blueprint", bp.ID)
		if err != nil {
			return fmt.Errorf("db.save_blueprint.lookup: %w", err)
		}
		if !createdAt.IsZero() {
			bp.CreatedAt = createdAt
		}
		saved = store.PrepareBlueprint(bp, s.now())

		_, err = tx.ExecContext(ctx, `
			INSERT INTO blueprint (id, name, description, total_fields, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				description = excluded.description,
				total_fields = excluded.total_fields,
				updated_at = excluded.updated_at`,
			saved.ID,
			saved.Name,
			nullable(saved.Description),
			saved.TotalFields,
			formatTime(saved.CreatedAt),
			formatTime(saved.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("db.save_blueprint: %w", err)
		}
		return blueprintFields.replace(ctx, tx, saved.ID, saved.Fields)
	})
	return
}

func (s *Store) DeleteBlueprint(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return deleteRow(ctx, tx, "blueprint", blueprintFields.name, blueprintFields.owner, id)
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBlueprint(row scanner) (bp model.Blueprint, err error) {
	var (
		description          sql.NullString
		createdAt, updatedAt string
	)
	err = row.Scan(&bp.ID, &bp.Name, &description, &bp.TotalFields, &createdAt, &updatedAt)
	if err != nil {
		return
	}
	bp.Description = optional(description)
	if bp.CreatedAt, err = parseTime(createdAt); err != nil {
		return
	}
	bp.UpdatedAt, err = parseTime(updatedAt)
	return
}
