package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cbodonnell/twentyone/pkg/repositories/models"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string, migrations string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, migrations, func(ctx context.Context, migration string) error {
		_, err := db.ExecContext(ctx, migration)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

// runMigrations executes every file in the migrations directory in name order.
func runMigrations(ctx context.Context, migrations string, exec func(ctx context.Context, migration string) error) error {
	dir, err := os.ReadDir(migrations)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %v", err)
	}
	sort.Slice(dir, func(i, j int) bool { return dir[i].Name() < dir[j].Name() })

	for _, entry := range dir {
		if entry.IsDir() {
			continue
		}

		migrationPath := filepath.Join(migrations, entry.Name())
		migration, err := os.ReadFile(migrationPath)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %v", migrationPath, err)
		}

		if err := exec(ctx, string(migration)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %v", migrationPath, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) LoadDocument(ctx context.Context, key string) (*models.Document, error) {
	q := `
	SELECT key, revision, data, updated_at FROM documents WHERE key = ?;
	`
	doc := &models.Document{}
	if err := r.db.QueryRowContext(ctx, q, key).Scan(&doc.Key, &doc.Revision, &doc.Data, &doc.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{Key: key}
		}
		return nil, fmt.Errorf("failed to scan document: %v", err)
	}
	return doc, nil
}

func (r *SQLiteRepository) SaveDocument(ctx context.Context, doc *models.Document) error {
	q := `
	INSERT OR REPLACE INTO documents (key, revision, data, updated_at)
	VALUES (?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q, doc.Key, doc.Revision, doc.Data, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save document: %v", err)
	}
	return nil
}

func (r *SQLiteRepository) LoadBalance(ctx context.Context, walletID string) (*models.Balance, error) {
	q := `
	SELECT wallet_id, balance, updated_at FROM balances WHERE wallet_id = ?;
	`
	balance := &models.Balance{}
	if err := r.db.QueryRowContext(ctx, q, walletID).Scan(&balance.WalletID, &balance.Balance, &balance.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{Key: walletID}
		}
		return nil, fmt.Errorf("failed to scan balance: %v", err)
	}
	return balance, nil
}

func (r *SQLiteRepository) SetBalance(ctx context.Context, walletID string, balance int) error {
	q := `
	INSERT OR REPLACE INTO balances (wallet_id, balance, updated_at)
	VALUES (?, ?, ?);
	`
	if _, err := r.db.ExecContext(ctx, q, walletID, balance, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to set balance: %v", err)
	}
	return nil
}

func (r *SQLiteRepository) DebitBalance(ctx context.Context, walletID string, amount int) (bool, error) {
	q := `
	UPDATE balances SET balance = balance - ?, updated_at = ?
	WHERE wallet_id = ? AND balance >= ?;
	`
	res, err := r.db.ExecContext(ctx, q, amount, time.Now().UnixMilli(), walletID, amount)
	if err != nil {
		return false, fmt.Errorf("failed to debit balance: %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %v", err)
	}
	return n == 1, nil
}

func (r *SQLiteRepository) CreditBalances(ctx context.Context, walletIDs []string, amount int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	for _, walletID := range walletIDs {
		q := `
		INSERT INTO balances (wallet_id, balance, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (wallet_id) DO UPDATE SET balance = balance + excluded.balance, updated_at = excluded.updated_at;
		`
		if _, err := tx.ExecContext(ctx, q, walletID, amount, now); err != nil {
			return fmt.Errorf("failed to credit balance: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}
	return nil
}

func (r *SQLiteRepository) LoadCharacter(ctx context.Context, participantID string) (*models.Character, error) {
	q := `
	SELECT participant_id, name, stats, updated_at FROM characters WHERE participant_id = ?;
	`
	character := &models.Character{}
	var stats string
	if err := r.db.QueryRowContext(ctx, q, participantID).Scan(&character.ParticipantID, &character.Name, &stats, &character.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{Key: participantID}
		}
		return nil, fmt.Errorf("failed to scan character: %v", err)
	}
	if err := json.Unmarshal([]byte(stats), &character.Stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %v", err)
	}
	return character, nil
}

func (r *SQLiteRepository) SaveCharacter(ctx context.Context, character *models.Character) error {
	stats, err := marshalStats(character.Stats)
	if err != nil {
		return err
	}
	q := `
	INSERT OR REPLACE INTO characters (participant_id, name, stats, updated_at)
	VALUES (?, ?, ?, ?);
	`
	if _, err := r.db.ExecContext(ctx, q, character.ParticipantID, character.Name, string(stats), time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to save character: %v", err)
	}
	return nil
}

func marshalStats(stats map[string]int) ([]byte, error) {
	if stats == nil {
		stats = map[string]int{}
	}
	b, err := json.Marshal(stats)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stats: %v", err)
	}
	return b, nil
}
