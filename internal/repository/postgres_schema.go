package repository

// Schema creates the tables the Postgres stores need. Every statement is
// idempotent so it can run at each start.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS rooms (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		type        TEXT NOT NULL,
		price       DOUBLE PRECISION NOT NULL,
		capacity    INT NOT NULL DEFAULT 1,
		available   BOOLEAN NOT NULL DEFAULT TRUE,
		description TEXT NOT NULL DEFAULT '',
		amenities   TEXT[] NOT NULL DEFAULT '{}',
		images      TEXT[] NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id         TEXT PRIMARY KEY,
		room_id    TEXT NOT NULL,
		user_id    TEXT NOT NULL,
		check_in   DATE NOT NULL,
		check_out  DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_room_id ON bookings (room_id, check_in)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings (user_id, check_in)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL,
		name          TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (LOWER(email))`,
}

const pgUniqueViolation = "23505"
