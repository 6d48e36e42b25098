package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cbodonnell/twentyone/pkg/log"
	"github.com/cbodonnell/twentyone/pkg/repositories/models"
	"github.com/jackc/pgx/v5"
)

type PostgresRepository struct {
	// pgx.Conn is not safe for concurrent use
	mu   sync.Mutex
	conn *pgx.Conn
}

// NewPostgresRepository connects to Postgres and applies the migrations.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string, migrations string) (Repository, error) {
	conn, err := connectDb(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(ctx, migrations, func(ctx context.Context, migration string) error {
		_, err := conn.Exec(ctx, migration)
		return err
	}); err != nil {
		conn.Close(ctx)
		return nil, err
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func connectDb(ctx context.Context, connStr string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	var username string
	var database string
	err = conn.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("unable to query database: %v", err)
	}

	log.Info("Connected to %s as %s", database, username)

	return conn, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) LoadDocument(ctx context.Context, key string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := `
	SELECT key, revision, data, updated_at FROM documents WHERE key = $1;
	`
	doc := &models.Document{}
	if err := r.conn.QueryRow(ctx, q, key).Scan(&doc.Key, &doc.Revision, &doc.Data, &doc.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrNotFound{Key: key}
		}
		return nil, fmt.Errorf("failed to scan document: %v", err)
	}
	return doc, nil
}

func (r *PostgresRepository) SaveDocument(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := `
	INSERT INTO documents (key, revision, data, updated_at) VALUES ($1, $2, $3, $4)
	ON CONFLICT (key) DO UPDATE SET revision = $2, data = $3, updated_at = $4;
	`
	if _, err := r.conn.Exec(ctx, q, doc.Key, doc.Revision, doc.Data, doc.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save document: %v", err)
	}
	return nil
}

func (r *PostgresRepository) LoadBalance(ctx context.Context, walletID string) (*models.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := `
	SELECT wallet_id, balance, updated_at FROM balances WHERE wallet_id = $1;
	`
	balance := &models.Balance{}
	if err := r.conn.QueryRow(ctx, q, walletID).Scan(&balance.WalletID, &balance.Balance, &balance.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrNotFound{Key: walletID}
		}
		return nil, fmt.Errorf("failed to scan balance: %v", err)
	}
	return balance, nil
}

func (r *PostgresRepository) SetBalance(ctx context.Context, walletID string, balance int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := `
	INSERT INTO balances (wallet_id, balance, updated_at) VALUES ($1, $2, $3)
	ON CONFLICT (wallet_id) DO UPDATE SET balance = $2, updated_at = $3;
	`
	if _, err := r.conn.Exec(ctx, q, walletID, balance, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to set balance: %v", err)
	}
	return nil
}

func (r *PostgresRepository) DebitBalance(ctx context.Context, walletID string, amount int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := `
	UPDATE balances SET balance = balance - $1, updated_at = $2
	WHERE wallet_id = $3 AND balance >= $1;
	`
	tag, err := r.conn.Exec(ctx, q, amount, time.Now().UnixMilli(), walletID)
	if err != nil {
		return false, fmt.Errorf("failed to debit balance: %v", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresRepository) CreditBalances(ctx context.Context, walletIDs []string, amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UnixMilli()
	for _, walletID := range walletIDs {
		q := `
		INSERT INTO balances (wallet_id, balance, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (wallet_id) DO UPDATE SET balance = balances.balance + $2, updated_at = $3;
		`
		if _, err := tx.Exec(ctx, q, walletID, amount, now); err != nil {
			return fmt.Errorf("failed to credit balance: %v", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}
	return nil
}

func (r *PostgresRepository) LoadCharacter(ctx context.Context, participantID string) (*models.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := `
	SELECT participant_id, name, stats, updated_at FROM characters WHERE participant_id = $1;
	`
	character := &models.Character{}
	var stats []byte
	if err := r.conn.QueryRow(ctx, q, participantID).Scan(&character.ParticipantID, &character.Name, &stats, &character.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrNotFound{Key: participantID}
		}
		return nil, fmt.Errorf("failed to scan character: %v", err)
	}
	if err := json.Unmarshal(stats, &character.Stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %v", err)
	}
	return character, nil
}

func (r *PostgresRepository) SaveCharacter(ctx context.Context, character *models.Character) error {
	stats, err := marshalStats(character.Stats)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	q := `
	INSERT INTO characters (participant_id, name, stats, updated_at) VALUES ($1, $2, $3, $4)
	ON CONFLICT (participant_id) DO UPDATE SET name = $2, stats = $3, updated_at = $4;
	`
	if _, err := r.conn.Exec(ctx, q, character.ParticipantID, character.Name, string(stats), time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to save character: %v", err)
	}
	return nil
}
