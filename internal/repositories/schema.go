package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema is applied on start-up when AUTO_MIGRATE is on. Every statement is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS categories (
	id UUID PRIMARY KEY,
	name VARCHAR(60) NOT NULL,
	slug VARCHAR(60) NOT NULL,
	is_removed BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS books (
	id UUID PRIMARY KEY,
	name VARCHAR(60) NOT NULL,
	image_url TEXT NOT NULL DEFAULT '',
	year VARCHAR(10) NOT NULL DEFAULT '',
	lang VARCHAR(30) NOT NULL DEFAULT '',
	page_count INTEGER NOT NULL DEFAULT 0,
	shabak VARCHAR(30) NOT NULL DEFAULT '',
	price NUMERIC(14, 2) NOT NULL CHECK (price >= 0),
	discount INTEGER NOT NULL DEFAULT 0 CHECK (discount BETWEEN 0 AND 100),
	detail TEXT NOT NULL DEFAULT '',
	number_in_stock INTEGER NOT NULL DEFAULT 0 CHECK (number_in_stock >= 0),
	authors VARCHAR(60) NOT NULL DEFAULT '',
	is_published BOOLEAN NOT NULL DEFAULT FALSE,
	category_id UUID NOT NULL REFERENCES categories(id),
	is_removed BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_books_category_id ON books(category_id);

CREATE TABLE IF NOT EXISTS advertises (
	id UUID PRIMARY KEY,
	image_url TEXT NOT NULL,
	book_id UUID NOT NULL REFERENCES books(id),
	is_published BOOLEAN NOT NULL DEFAULT FALSE,
	is_removed BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	avatar_url TEXT NOT NULL DEFAULT '',
	name VARCHAR(60) NOT NULL,
	email VARCHAR(60) NOT NULL,
	password TEXT NOT NULL,
	acl VARCHAR(10) NOT NULL DEFAULT 'user',
	gender VARCHAR(20) NOT NULL DEFAULT '',
	melli_code VARCHAR(10) NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	postal_code VARCHAR(20) NOT NULL DEFAULT '',
	forget_key VARCHAR(6) NOT NULL DEFAULT '',
	expire_forget_key TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS carts (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	total_price NUMERIC(14, 2) NOT NULL DEFAULT 0,
	is_open BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_one_open_per_user ON carts(user_id) WHERE is_open;

CREATE TABLE IF NOT EXISTS cart_orders (
	id UUID PRIMARY KEY,
	cart_id UUID NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
	book_id UUID NOT NULL REFERENCES books(id),
	order_price NUMERIC(14, 2) NOT NULL,
	entity INTEGER NOT NULL CHECK (entity >= 1),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (cart_id, book_id)
);

CREATE TABLE IF NOT EXISTS notifications (
	id UUID PRIMARY KEY,
	type VARCHAR(20) NOT NULL,
	recipient VARCHAR(255) NOT NULL,
	subject VARCHAR(255) NOT NULL DEFAULT '',
	template VARCHAR(60) NOT NULL,
	status VARCHAR(20) NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	metadata JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	sent_at TIMESTAMPTZ
);
`

func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	return nil
}
