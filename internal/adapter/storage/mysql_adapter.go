package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jan-ice17/supermarket-inventory/internal/core/domain"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS inventory_items (
		id              INT UNSIGNED    NOT NULL PRIMARY KEY,
		name            VARCHAR(255)    NOT NULL,
		quantity        INT UNSIGNED    NOT NULL,
		price           DOUBLE          NOT NULL,
		expiration_date BIGINT UNSIGNED NOT NULL,
		updated_at      DATETIME(6)     NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_logs (
		seq        BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		event_id   CHAR(36)        NOT NULL,
		kind       VARCHAR(32)     NOT NULL,
		item_id    INT UNSIGNED    NOT NULL,
		entry      TEXT            NOT NULL,
		created_at DATETIME(6)     NOT NULL
	)`,
}

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// ApplyChange journals the change and applies it to inventory_items in one
// transaction. A change whose seq is already journaled is skipped.
func (m *MySQLAdapter) ApplyChange(ctx context.Context, change domain.Change) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT IGNORE INTO inventory_logs (seq, event_id, kind, item_id, entry, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		change.Seq, change.ID, string(change.Kind), change.ItemID, change.Entry, change.At,
	)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return tx.Commit()
	}

	switch change.Kind {
	case domain.ChangeAdded, domain.ChangeQuantityUpdated:
		item := change.Item
		_, err = tx.ExecContext(ctx, `
			INSERT INTO inventory_items (id, name, quantity, price, expiration_date, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				name = VALUES(name), quantity = VALUES(quantity), price = VALUES(price),
				expiration_date = VALUES(expiration_date), updated_at = VALUES(updated_at)`,
			item.ID, item.Name, item.Quantity, item.Price, item.ExpirationDate, change.At,
		)
		if err != nil {
			return fmt.Errorf("upsert item: %w", err)
		}
	case domain.ChangeRemoved:
		if _, err = tx.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = ?`, change.ItemID); err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
	default:
		return fmt.Errorf("unknown change kind %q", change.Kind)
	}

	return tx.Commit()
}

// LoadSnapshot reads the item table and the journal. LastSeq is the highest
// journaled seq, which is greater than len(Logs) when changes were lost.
func (m *MySQLAdapter) LoadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	var snap domain.Snapshot

	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, quantity, price, expiration_date
		FROM inventory_items ORDER BY id`)
	if err != nil {
		return snap, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.Price, &item.ExpirationDate); err != nil {
			return snap, fmt.Errorf("scan item: %w", err)
		}
		snap.Items = append(snap.Items, item)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("iterate items: %w", err)
	}

	logRows, err := m.db.QueryContext(ctx, `SELECT seq, entry FROM inventory_logs ORDER BY seq`)
	if err != nil {
		return snap, fmt.Errorf("query logs: %w", err)
	}
	defer logRows.Close()

	for logRows.Next() {
		var (
			seq   int
			entry string
		)
		if err := logRows.Scan(&seq, &entry); err != nil {
			return snap, fmt.Errorf("scan log: %w", err)
		}
		snap.Logs = append(snap.Logs, entry)
		snap.LastSeq = seq
	}
	if err := logRows.Err(); err != nil {
		return snap, fmt.Errorf("iterate logs: %w", err)
	}

	return snap, nil
}
