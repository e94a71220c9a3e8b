// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite.
// ABOUTME: Persists conversation messages and the product catalog with schema creation on open.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/zapvendedor/zap-gateway/internal/catalog"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path. The schema is
// created if it doesn't exist and an empty product table is seeded with the
// sample catalog. Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL improves concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if err := s.seedProducts(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding products: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist.
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			phone_number TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_messages_phone_created
			ON messages(phone_number, created_at);

		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			brand TEXT NOT NULL,
			description TEXT NOT NULL,
			price REAL NOT NULL,
			stock INTEGER NOT NULL DEFAULT 0,
			specifications TEXT NOT NULL DEFAULT '{}',
			image_url TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// seedProducts inserts the sample catalog when the products table is empty.
func (s *SQLiteStore) seedProducts() error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, p := range catalog.Samples() {
		if err := s.Add(context.Background(), p); err != nil {
			return err
		}
	}
	s.logger.Info("seeded sample products", "count", len(catalog.Samples()))
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveMessage appends a conversation message. An empty ID is filled in.
func (s *SQLiteStore) SaveMessage(ctx context.Context, msg *Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, phone_number, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.PhoneNumber, msg.Role, msg.Content, msg.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving message: %w", err)
	}
	return nil
}

// History returns the most recent messages for a phone number in
// chronological order. A limit of 0 returns everything.
func (s *SQLiteStore) History(ctx context.Context, phoneNumber string, limit int) ([]*Message, error) {
	query := `
		SELECT id, phone_number, role, content, created_at
		FROM messages
		WHERE phone_number = ?
		ORDER BY created_at DESC, rowid DESC`
	args := []any{phoneNumber}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		var m Message
		var createdAtStr string
		if err := rows.Scan(&m.ID, &m.PhoneNumber, &m.Role, &m.Content, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest-first from the query; reverse into chronological order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// ListConversations returns a summary per phone number, most recent first.
func (s *SQLiteStore) ListConversations(ctx context.Context) ([]*Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT phone_number, COUNT(*), MAX(created_at)
		FROM messages
		GROUP BY phone_number
		ORDER BY MAX(created_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var convs []*Conversation
	for rows.Next() {
		var c Conversation
		// The aggregate loses the column's declared type under this
		// driver, so scan the text and parse it.
		var lastStr string
		if err := rows.Scan(&c.PhoneNumber, &c.MessageCount, &lastStr); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		c.LastMessageAt, err = time.Parse(time.RFC3339, lastStr)
		if err != nil {
			return nil, fmt.Errorf("parsing last message time: %w", err)
		}
		convs = append(convs, &c)
	}
	return convs, rows.Err()
}

// ListAll returns all products ordered by creation time.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]*catalog.Product, error) {
	return s.queryProducts(ctx, productColumns+" FROM products ORDER BY created_at, id")
}

// GetByID returns a product or catalog.ErrNotFound.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	row := s.db.QueryRowContext(ctx, productColumns+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", catalog.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	return p, nil
}

// Search returns products matching a free-text query across name,
// description, brand, and category.
func (s *SQLiteStore) Search(ctx context.Context, query string) ([]*catalog.Product, error) {
	like := "%" + query + "%"
	return s.queryProducts(ctx, productColumns+`
		FROM products
		WHERE name LIKE ? COLLATE NOCASE
		   OR description LIKE ? COLLATE NOCASE
		   OR brand LIKE ? COLLATE NOCASE
		   OR category LIKE ? COLLATE NOCASE
		ORDER BY created_at, id`,
		like, like, like, like)
}

// FilterProducts returns products satisfying every set constraint.
func (s *SQLiteStore) FilterProducts(ctx context.Context, f catalog.Filter) ([]*catalog.Product, error) {
	query := productColumns + " FROM products WHERE 1=1"
	var args []any
	if f.Category != "" {
		query += " AND category = ? COLLATE NOCASE"
		args = append(args, f.Category)
	}
	if f.Brand != "" {
		query += " AND brand = ? COLLATE NOCASE"
		args = append(args, f.Brand)
	}
	if f.MaxPrice > 0 {
		query += " AND price <= ?"
		args = append(args, f.MaxPrice)
	}
	query += " ORDER BY created_at, id"
	return s.queryProducts(ctx, query, args...)
}

// Add inserts a product, assigning an ID and timestamps when unset.
func (s *SQLiteStore) Add(ctx context.Context, p *catalog.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	specs, err := json.Marshal(p.Specifications)
	if err != nil {
		return fmt.Errorf("encoding specifications: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, category, brand, description, price, stock, specifications, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Category, p.Brand, p.Description, p.Price, p.Stock, string(specs), p.ImageURL,
		p.CreatedAt.UTC().Format(time.RFC3339), p.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

// Update replaces a product's fields and bumps updated_at.
func (s *SQLiteStore) Update(ctx context.Context, p *catalog.Product) error {
	p.UpdatedAt = time.Now()

	specs, err := json.Marshal(p.Specifications)
	if err != nil {
		return fmt.Errorf("encoding specifications: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, category = ?, brand = ?, description = ?, price = ?, stock = ?, specifications = ?, image_url = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Category, p.Brand, p.Description, p.Price, p.Stock, string(specs), p.ImageURL,
		p.UpdatedAt.UTC().Format(time.RFC3339), p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", catalog.ErrNotFound, p.ID)
	}
	return nil
}

// Delete removes a product by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", catalog.ErrNotFound, id)
	}
	return nil
}

const productColumns = "SELECT id, name, category, brand, description, price, stock, specifications, image_url, created_at, updated_at"

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*catalog.Product, error) {
	var p catalog.Product
	var specs, createdAtStr, updatedAtStr string
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Brand, &p.Description, &p.Price, &p.Stock, &specs, &p.ImageURL, &createdAtStr, &updatedAtStr); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(specs), &p.Specifications); err != nil {
		return nil, fmt.Errorf("decoding specifications: %w", err)
	}

	var err error
	p.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	p.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &p, nil
}

func (s *SQLiteStore) queryProducts(ctx context.Context, query string, args ...any) ([]*catalog.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []*catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
