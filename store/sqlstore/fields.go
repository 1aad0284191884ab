package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mbolis/quick-contract/canvas"
	"github.com/mbolis/quick-contract/model"
)

// fieldTable describes one of the two child tables holding form fields.
type fieldTable struct {
	name  string
	owner string
}

var (
	blueprintFields = fieldTable{name: "blueprint_field", owner: "blueprint_id"}
	contractFields  = fieldTable{name: "contract_field", owner: "contract_id"}
)

func (t fieldTable) replace(ctx context.Context, tx *sql.Tx, ownerID string, fields []model.FormField) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM `+t.name+` WHERE `+t.owner+` = ?`, ownerID)
	if err != nil {
		return fmt.Errorf("db.%s.delete: %w", t.name, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO `+t.name+` (`+t.owner+`, ord, type, label, x, y, w, h, value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("db.%s.prepare: %w", t.name, err)
	}
	defer stmt.Close()

	for i, f := range fields {
		value, err := model.MarshalValue(f.Value)
		if err != nil {
			return fmt.Errorf("db.%s.encode_value: %w", t.name, err)
		}
		_, err = stmt.ExecContext(ctx, ownerID, i, string(f.Type), nullable(f.Label),
			f.Position.X, f.Position.Y, f.Position.W, f.Position.H, string(value))
		if err != nil {
			return fmt.Errorf("db.%s.insert: %w", t.name, err)
		}
	}
	return nil
}

// load returns the fields of every owner in ownerIDs, or of all owners
// when ownerIDs is empty.
func (t fieldTable) load(ctx context.Context, q queryer, ownerIDs ...string) (map[string][]model.FormField, error) {
	query := `
		SELECT ` + t.owner + `, type, label, x, y, w, h, value
		FROM ` + t.name
	var args []any
	if len(ownerIDs) == 1 {
		query += ` WHERE ` + t.owner + ` = ?`
		args = append(args, ownerIDs[0])
	}
	query += ` ORDER BY ` + t.owner + `, ord`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db.%s.select: %w", t.name, err)
	}
	defer rows.Close()

	fields := map[string][]model.FormField{}
	for rows.Next() {
		var (
			owner string
			f     model.FormField
			label sql.NullString
			pos   canvas.Rect
			value string
		)
		err = rows.Scan(&owner, &f.Type, &label, &pos.X, &pos.Y, &pos.W, &pos.H, &value)
		if err != nil {
			return nil, fmt.Errorf("db.%s.scan: %w", t.name, err)
		}
		f.Label = optional(label)
		f.Position = pos
		f.Value, err = model.UnmarshalValue(f.Type, []byte(value))
		if err != nil {
			return nil, fmt.Errorf("db.%s.parse_value: %w", t.name, err)
		}
		fields[owner] = append(fields[owner], f)
	}
	return fields, rows.Err()
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func optional(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
