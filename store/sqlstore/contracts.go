package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/store"
)

func (s *Store) ListContracts(ctx context.Context) ([]model.Contract, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, blueprint_id, name, description, status, created_at, updated_at
		FROM contract`)
	if err != nil {
		return nil, fmt.Errorf("db.get_contracts: %w", err)
	}
	defer rows.Close()

	cs := []model.Contract{}
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db.get_contracts: %w", err)
	}

	fields, err := contractFields.load(ctx, s.db)
	if err != nil {
		return nil, err
	}
	for i := range cs {
		cs[i].Fields = fields[cs[i].ID]
	}
	store.SortContracts(cs)
	return cs, nil
}

func (s *Store) GetContract(ctx context.Context, id string) (model.Contract, error) {
	return getContract(ctx, s.db, id)
}

func getContract(ctx context.Context, q queryer, id string) (model.Contract, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, blueprint_id, name, description, status, created_at, updated_at
		FROM contract
		WHERE id = ?`,
		id,
	)
	c, err := scanContract(row)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("contract %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return c, err
	}

	fields, err := contractFields.load(ctx, q, id)
	if err != nil {
		return c, err
	}
	c.Fields = fields[id]
	return c, nil
}

func (s *Store) SaveContract(ctx context.Context, c model.Contract) (saved model.Contract, err error) {
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		createdAt, err := existingCreatedAt(ctx, tx, "contract", c.ID)
		if err != nil {
			return fmt.Errorf("db.save_contract.lookup: %w", err)
		}
		if !createdAt.IsZero() {
			c.CreatedAt = createdAt
		}
		saved = store.PrepareContract(c, s.now())

		_, err = tx.ExecContext(ctx, `
			INSERT INTO contract (id, blueprint_id, name, description, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				blueprint_id = excluded.blueprint_id,
				name = excluded.name,
				description = excluded.description,
				status = excluded.status,
				updated_at = excluded.updated_at`,
			saved.ID,
			saved.BlueprintID,
			saved.Name,
			nullable(saved.Description),
			string(saved.Status),
			formatTime(saved.CreatedAt),
			formatTime(saved.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("db.save_contract: %w", err)
		}
		return contractFields.replace(ctx, tx, saved.ID, saved.Fields)
	})
	return
}

func (s *Store) UpdateContractStatus(ctx context.Context, id string, status model.Status) (updated model.Contract, err error) {
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE contract
			SET status = ?, updated_at = ?
			WHERE id = ?`,
			string(status),
			formatTime(s.now()),
			id,
		)
		if err != nil {
			return fmt.Errorf("db.update_contract_status: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("db.update_contract_status.verify: %w", err)
		}
		if n < 1 {
			return fmt.Errorf("contract %s: %w", id, store.ErrNotFound)
		}

		updated, err = getContract(ctx, tx, id)
		return err
	})
	return
}

func (s *Store) DeleteContract(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return deleteRow(ctx, tx, "contract", contractFields.name, contractFields.owner, id)
	})
}

func scanContract(row scanner) (c model.Contract, err error) {
	var (
		description          sql.NullString
		createdAt, updatedAt string
	)
	err = row.Scan(&c.ID, &c.BlueprintID, &c.Name, &description, &c.Status, &createdAt, &updatedAt)
	if err != nil {
		return
	}
	c.Description = optional(description)
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	return
}
