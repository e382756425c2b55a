package database

import (
	"context"
	"errors"
	"fmt"

	"chat-relay/internal/models"
	"chat-relay/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresDB struct {
	pool *pgxpool.Pool
}

func NewPostgresDB(databaseURL string) (*PostgresDB, error) {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully")
	return &PostgresDB{pool: pool}, nil
}

func (db *PostgresDB) Close() error {
	db.pool.Close()
	return nil
}

// Message Store Implementation

func (db *PostgresDB) SaveMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	// created_at defaults to the database clock; a preassigned timestamp
	// (never set by the relay, kept for the store contract) wins if present.
	var query string
	var row pgx.Row
	if msg.Timestamp.IsZero() {
		query = `
			INSERT INTO messages (room, username, content, created_at)
			VALUES ($1, $2, $3, NOW())
			RETURNING id, created_at`
		row = db.pool.QueryRow(ctx, query, msg.Room, msg.Username, msg.Text)
	} else {
		query = `
			INSERT INTO messages (room, username, content, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`
		row = db.pool.QueryRow(ctx, query, msg.Room, msg.Username, msg.Text, msg.Timestamp)
	}

	stored := &models.Message{Room: msg.Room, Username: msg.Username, Text: msg.Text}
	if err := row.Scan(&stored.ID, &stored.Timestamp); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}
	return stored, nil
}

func (db *PostgresDB) RecentMessages(ctx context.Context, room string, limit int) ([]*models.Message, error) {
	query := `
		SELECT id, room, username, content, created_at
		FROM messages
		WHERE room = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := db.pool.Query(ctx, query, room, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		if err := rows.Scan(&msg.ID, &msg.Room, &msg.Username, &msg.Text, &msg.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to show oldest first
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (db *PostgresDB) DeleteRoomMessages(ctx context.Context, room string) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM messages WHERE room = $1`, room)
	return err
}

// Room Store Implementation

func (db *PostgresDB) CreateRoom(ctx context.Context, name string) (*models.Room, error) {
	query := `
		INSERT INTO rooms (name, created_at) VALUES ($1, NOW())
		RETURNING id, name, created_at`

	room := &models.Room{}
	err := db.pool.QueryRow(ctx, query, name).Scan(&room.ID, &room.Name, &room.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateRoom
		}
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return room, nil
}

func (db *PostgresDB) ListRooms(ctx context.Context) ([]*models.Room, error) {
	rows, err := db.pool.Query(ctx, `SELECT id, name, created_at FROM rooms ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room := &models.Room{}
		if err := rows.Scan(&room.ID, &room.Name, &room.CreatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

func (db *PostgresDB) DeleteRoom(ctx context.Context, name string) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM rooms WHERE name = $1`, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (db *PostgresDB) RoomExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM rooms WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}
