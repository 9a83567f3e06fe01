package postgres

import (
	"context"
	"database/sql"

	"furniture-rental-backend/internal/logger"
)

// Schema creates the tables owned by the checkout core. Products and contracts
// belong to the catalog and lease subsystems; their tables are created here
// only so a fresh database can run the workflow end to end.
const Schema = `
CREATE TABLE IF NOT EXISTS furniture_products (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	daily_rate_cents BIGINT NOT NULL CHECK (daily_rate_cents >= 0),
	active           BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS rental_contracts (
	id          BIGSERIAL PRIMARY KEY,
	member_id   INTEGER NOT NULL,
	property_id INTEGER NOT NULL,
	start_date  DATE NOT NULL,
	end_date    DATE,
	status      TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS rental_contracts_one_active
	ON rental_contracts (member_id, property_id) WHERE status = 'ACTIVE';

CREATE TABLE IF NOT EXISTS furniture_carts (
	id          TEXT PRIMARY KEY,
	member_id   INTEGER NOT NULL,
	property_id INTEGER NOT NULL,
	status      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS furniture_carts_one_open
	ON furniture_carts (member_id, property_id) WHERE status <> 'ORDERED';

CREATE TABLE IF NOT EXISTS furniture_cart_items (
	id          TEXT PRIMARY KEY,
	cart_id     TEXT NOT NULL REFERENCES furniture_carts (id) ON DELETE CASCADE,
	product_id  TEXT NOT NULL,
	quantity    INTEGER NOT NULL CHECK (quantity > 0),
	rental_days INTEGER NOT NULL CHECK (rental_days >= 0),
	created_at  TIMESTAMPTZ NOT NULL,
	UNIQUE (cart_id, product_id)
);

CREATE TABLE IF NOT EXISTS furniture_orders (
	id          BIGSERIAL PRIMARY KEY,
	member_id   INTEGER NOT NULL,
	property_id INTEGER NOT NULL,
	contract_id BIGINT NOT NULL,
	status      TEXT NOT NULL,
	total_cents BIGINT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS furniture_order_items (
	id                  BIGSERIAL PRIMARY KEY,
	order_id            BIGINT NOT NULL REFERENCES furniture_orders (id),
	product_id          TEXT NOT NULL,
	quantity            INTEGER NOT NULL,
	daily_rate_snapshot BIGINT NOT NULL,
	rental_days         INTEGER NOT NULL,
	subtotal_cents      BIGINT NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS furniture_order_histories (
	id                    TEXT PRIMARY KEY,
	order_id              BIGINT NOT NULL REFERENCES furniture_orders (id),
	order_item_id         BIGINT NOT NULL REFERENCES furniture_order_items (id),
	member_id             INTEGER NOT NULL,
	property_id           INTEGER NOT NULL,
	product_id            TEXT NOT NULL,
	product_name_snapshot TEXT NOT NULL,
	daily_rate_snapshot   BIGINT NOT NULL,
	quantity              INTEGER NOT NULL,
	rental_start          DATE NOT NULL,
	rental_end            DATE NOT NULL,
	subtotal_cents        BIGINT NOT NULL,
	item_status           TEXT NOT NULL,
	created_at            TIMESTAMPTZ NOT NULL,
	updated_at            TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS furniture_inventories (
	product_id         TEXT PRIMARY KEY,
	available_quantity INTEGER NOT NULL CHECK (available_quantity >= 0),
	rented_quantity    INTEGER NOT NULL CHECK (rented_quantity >= 0),
	updated_at         TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS inventory_events (
	id          TEXT PRIMARY KEY,
	product_id  TEXT NOT NULL REFERENCES furniture_inventories (product_id),
	quantity    INTEGER NOT NULL,
	event_type  TEXT NOT NULL,
	source_type TEXT NOT NULL,
	source_id   TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS inventory_events_product ON inventory_events (product_id);
`

func Migrate(ctx context.Context, db *sql.DB) error {
	logger.DatabaseCall("migrate", "schema")
	_, err := db.ExecContext(ctx, Schema)
	logger.DatabaseResult("migrate", 0, err)
	return err
}
