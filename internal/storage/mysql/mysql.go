// Package mysql implements storage.Store on top of database/sql with the
// MySQL driver. It shares the connection opened by sqlconnect.
package mysql

import (
	"database/sql"
	"time"
)

// TimeFormat is the layout used for every persisted timestamp string.
const TimeFormat = "2006-01-02 15:04:05"

type Store struct {
	db *sql.DB
}

// New wraps an already-connected database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Now returns the current UTC time in the persisted layout.
func Now() string {
	return time.Now().UTC().Format(TimeFormat)
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		username VARCHAR(100) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'user',
		currency VARCHAR(3) NOT NULL DEFAULT 'USD',
		inactive_status BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL,
		updated_at DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS friends (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		friend_user_id INT,
		name VARCHAR(200) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at DATETIME NOT NULL,
		updated_at DATETIME,
		INDEX idx_friends_user (user_id, status)
	)`,
	`CREATE TABLE IF NOT EXISTS friend_requests (
		id INT AUTO_INCREMENT PRIMARY KEY,
		from_user INT NOT NULL,
		to_email VARCHAR(255) NOT NULL,
		token VARCHAR(64) NOT NULL UNIQUE,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS split_events (
		id INT AUTO_INCREMENT PRIMARY KEY,
		creator_id INT NOT NULL,
		payer_id INT NOT NULL,
		description VARCHAR(255) NOT NULL,
		total DECIMAL(12,2) NOT NULL,
		mode VARCHAR(20) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at DATETIME NOT NULL,
		settled_at DATETIME,
		INDEX idx_splits_creator (creator_id),
		INDEX idx_splits_payer (payer_id)
	)`,
	`CREATE TABLE IF NOT EXISTS split_shares (
		id INT AUTO_INCREMENT PRIMARY KEY,
		split_id INT NOT NULL,
		user_id INT,
		name VARCHAR(200) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL DEFAULT '',
		amount DECIMAL(12,2) NOT NULL,
		created_at DATETIME NOT NULL,
		INDEX idx_shares_split (split_id)
	)`,
	`CREATE TABLE IF NOT EXISTS debts (
		id INT AUTO_INCREMENT PRIMARY KEY,
		creditor_id INT NOT NULL,
		debtor_id INT NOT NULL,
		amount DECIMAL(12,2) NOT NULL,
		description VARCHAR(255) NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		type VARCHAR(20) NOT NULL DEFAULT 'manual',
		split_id INT,
		due_date DATETIME,
		paid_at DATETIME,
		payment_method VARCHAR(30),
		created_at DATETIME NOT NULL,
		updated_at DATETIME,
		INDEX idx_debts_creditor (creditor_id, status),
		INDEX idx_debts_debtor (debtor_id, status),
		INDEX idx_debts_split (split_id)
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id INT AUTO_INCREMENT PRIMARY KEY,
		recipient_id INT NOT NULL,
		sender_id INT NOT NULL,
		type VARCHAR(40) NOT NULL,
		title VARCHAR(255) NOT NULL,
		body TEXT,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		read_at DATETIME,
		related_kind VARCHAR(20) NOT NULL DEFAULT '',
		related_id INT,
		created_at DATETIME NOT NULL,
		INDEX idx_notifications_recipient (recipient_id, is_read)
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		title VARCHAR(200) NOT NULL,
		amount DECIMAL(12,2) NOT NULL,
		category VARCHAR(50) NOT NULL,
		subcategory VARCHAR(50) NOT NULL DEFAULT '',
		date DATETIME NOT NULL,
		payment_mode VARCHAR(20) NOT NULL,
		description TEXT,
		merchant VARCHAR(100) NOT NULL DEFAULT '',
		location VARCHAR(200) NOT NULL DEFAULT '',
		tags VARCHAR(500) NOT NULL DEFAULT '',
		currency VARCHAR(3) NOT NULL DEFAULT 'USD',
		created_at DATETIME NOT NULL,
		updated_at DATETIME,
		INDEX idx_expenses_user_date (user_id, date),
		INDEX idx_expenses_user_category (user_id, category)
	)`,
	`CREATE TABLE IF NOT EXISTS budgets (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		name VARCHAR(100) NOT NULL,
		category VARCHAR(50) NOT NULL,
		amount DECIMAL(12,2) NOT NULL,
		month INT NOT NULL,
		year INT NOT NULL,
		alert_threshold DECIMAL(4,2) NOT NULL DEFAULT 0.80,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME NOT NULL,
		updated_at DATETIME,
		UNIQUE KEY uniq_budget_period (user_id, category, month, year)
	)`,
	`CREATE TABLE IF NOT EXISTS recommendations (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		type VARCHAR(30) NOT NULL,
		title VARCHAR(200) NOT NULL,
		description TEXT,
		category VARCHAR(50) NOT NULL DEFAULT '',
		priority VARCHAR(10) NOT NULL DEFAULT 'medium',
		potential_savings DECIMAL(12,2) NOT NULL DEFAULT 0,
		is_dismissed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL,
		updated_at DATETIME,
		INDEX idx_recommendations_user (user_id, is_dismissed)
	)`,
}

// Migrate creates all tables if they do not exist yet.
func Migrate(db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
