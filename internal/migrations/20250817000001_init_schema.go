package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/studydeck/deckapi/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20250817000001, down_20250817000001)
}

// up_20250817000001 initializes the full database schema
func up_20250817000001(ctx context.Context, db *bun.DB) error {
	// 1. Create users table
	fmt.Print(" [up] creating users table...")
	_, err := db.NewCreateTable().
		Model((*models.User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	fmt.Println(" OK")

	// 2. Create decks table
	fmt.Print(" [up] creating decks table...")
	_, err = db.NewCreateTable().
		Model((*models.Deck)(nil)).
		IfNotExists().
		ForeignKey(`("owner_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create decks table: %w", err)
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_decks_owner ON decks(owner_id)`)
	if err != nil {
		return fmt.Errorf("create index on decks.owner_id: %w", err)
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_decks_status ON decks(status)`)
	if err != nil {
		return fmt.Errorf("create index on decks.status: %w", err)
	}
	// SQLite cannot ALTER TABLE ADD CONSTRAINT; there the status range is
	// enforced at the store boundary only.
	if IsPostgreSQL(db) {
		_, err = db.Exec(`ALTER TABLE decks ADD CONSTRAINT chk_decks_status CHECK (status BETWEEN 1 AND 4)`)
		if err != nil {
			return fmt.Errorf("add status check constraint: %w", err)
		}
	}
	fmt.Println(" OK")

	// 3. Create cards table
	fmt.Print(" [up] creating cards table...")
	_, err = db.NewCreateTable().
		Model((*models.Card)(nil)).
		IfNotExists().
		ForeignKey(`("deck_id") REFERENCES "decks" ("id") ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create cards table: %w", err)
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_cards_deck ON cards(deck_id)`)
	if err != nil {
		return fmt.Errorf("create index on cards.deck_id: %w", err)
	}
	fmt.Println(" OK")

	// 4. Create study_records table
	fmt.Print(" [up] creating study_records table...")
	_, err = db.NewCreateTable().
		Model((*models.StudyRecord)(nil)).
		IfNotExists().
		ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
		ForeignKey(`("deck_id") REFERENCES "decks" ("id") ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create study_records table: %w", err)
	}
	_, err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_study_records_user_deck ON study_records(user_id, deck_id)`)
	if err != nil {
		return fmt.Errorf("create unique index on study_records: %w", err)
	}
	fmt.Println(" OK")

	// 5. Create revoked_tokens table
	fmt.Print(" [up] creating revoked_tokens table...")
	_, err = db.NewCreateTable().
		Model((*models.RevokedToken)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create revoked_tokens table: %w", err)
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_revoked_tokens_expiry ON revoked_tokens(expires_at)`)
	if err != nil {
		return fmt.Errorf("create index on revoked_tokens.expires_at: %w", err)
	}
	fmt.Println(" OK")

	return nil
}

// down_20250817000001 drops the full schema in dependency order
func down_20250817000001(ctx context.Context, db *bun.DB) error {
	for _, model := range []any{
		(*models.RevokedToken)(nil),
		(*models.StudyRecord)(nil),
		(*models.Card)(nil),
		(*models.Deck)(nil),
		(*models.User)(nil),
	} {
		if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}
