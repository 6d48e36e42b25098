package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/cbodonnell/twentyone/pkg/repositories/models"
)

// Repository is the durable store behind the game document and the wallets.
type Repository interface {
	Close(ctx context.Context) error
	// LoadDocument returns ErrNotFound when the key has never been saved
	LoadDocument(ctx context.Context, key string) (*models.Document, error)
	SaveDocument(ctx context.Context, doc *models.Document) error
	// LoadBalance returns ErrNotFound for unknown wallets
	LoadBalance(ctx context.Context, walletID string) (*models.Balance, error)
	SetBalance(ctx context.Context, walletID string, balance int) error
	// DebitBalance removes amount only when the wallet can cover it and
	// reports whether it did
	DebitBalance(ctx context.Context, walletID string, amount int) (bool, error)
	// CreditBalances adds amount to every wallet in one transaction, creating
	// missing wallets
	CreditBalances(ctx context.Context, walletIDs []string, amount int) error
	// LoadCharacter returns ErrNotFound for participants without a sheet
	LoadCharacter(ctx context.Context, participantID string) (*models.Character, error)
	SaveCharacter(ctx context.Context, character *models.Character) error
}

// NewRepository opens the repository named by a database URL. URLs starting
// with postgres:// or postgresql:// use Postgres; sqlite:// and bare paths use
// SQLite; memory:// keeps everything in process.
func NewRepository(ctx context.Context, databaseURL string, migrations string) (Repository, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return NewPostgresRepository(ctx, databaseURL, migrations)
	case strings.HasPrefix(databaseURL, "memory://"):
		return NewMemoryRepository(), nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return NewSQLiteRepository(ctx, strings.TrimPrefix(databaseURL, "sqlite://"), migrations)
	case databaseURL == "":
		return nil, fmt.Errorf("database url is required")
	default:
		return NewSQLiteRepository(ctx, databaseURL, migrations)
	}
}
