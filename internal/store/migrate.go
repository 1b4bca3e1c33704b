package store

import "context"

// schema holds the DDL statements applied in order at startup. Statements
// are idempotent so repeated boots are safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(150) NOT NULL UNIQUE,
		display_name VARCHAR(300) NOT NULL,
		hashed_password VARCHAR(400) NOT NULL,
		email VARCHAR(250) NOT NULL UNIQUE,
		wallet VARCHAR(100) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'user',
		balance NUMERIC(36,18) NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		is_blocked BOOLEAN NOT NULL DEFAULT FALSE,
		avatar VARCHAR(250) NOT NULL DEFAULT 'defaultAvatar.png',
		background VARCHAR(250) NOT NULL DEFAULT 'defaultBg.png',
		bio TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS followers (
		id BIGSERIAL PRIMARY KEY,
		follower_id BIGINT NOT NULL REFERENCES users(id),
		followed_id BIGINT NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (follower_id, followed_id)
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(60) NOT NULL UNIQUE,
		logo VARCHAR(500) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS collection_categories (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(64) NOT NULL UNIQUE,
		description VARCHAR(100) NOT NULL,
		logo_file VARCHAR(300) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS collections (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		royalty NUMERIC(4,2) NOT NULL,
		logo_file VARCHAR(300) NOT NULL,
		featured_file VARCHAR(300) NOT NULL,
		banner_file VARCHAR(300) NOT NULL,
		user_id BIGINT NOT NULL REFERENCES users(id),
		category_id BIGINT NOT NULL REFERENCES collection_categories(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS nfts (
		id BIGSERIAL PRIMARY KEY,
		token_id VARCHAR(100) NOT NULL UNIQUE,
		name VARCHAR(100) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_file VARCHAR(255) NOT NULL,
		price NUMERIC(10,2) NOT NULL DEFAULT 0,
		creator_id BIGINT NOT NULL REFERENCES users(id),
		owner_id BIGINT NOT NULL REFERENCES users(id),
		category_id BIGINT NOT NULL REFERENCES categories(id),
		collection_id BIGINT REFERENCES collections(id),
		is_listed BOOLEAN NOT NULL DEFAULT TRUE,
		is_blocked BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS offers (
		id BIGSERIAL PRIMARY KEY,
		nft_id BIGINT NOT NULL REFERENCES nfts(id),
		buyer_id BIGINT NOT NULL REFERENCES users(id),
		owner_id BIGINT NOT NULL REFERENCES users(id),
		price_at_offer NUMERIC(36,18) NOT NULL,
		amount NUMERIC(36,18) NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		is_accepted BOOLEAN NOT NULL DEFAULT FALSE,
		is_cancelled BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS likes (
		id BIGSERIAL PRIMARY KEY,
		nft_id BIGINT NOT NULL REFERENCES nfts(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(id),
		token_id VARCHAR(100) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (nft_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS views (
		id BIGSERIAL PRIMARY KEY,
		nft_id BIGINT NOT NULL REFERENCES nfts(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(id),
		token_id VARCHAR(100) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (nft_id, user_id)
	)`,
}

// Migrate applies the schema statements in order
func (d *Database) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
