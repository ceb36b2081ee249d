package postgres

import (
	"context"
	"database/sql"

	"groupchat/internal/core/domain"

	"github.com/google/uuid"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{
		db: db,
	}
}

// Insert writes one accepted message. The seq column is a bigserial that
// gives FindAll its insertion order.
func (r *MessageRepo) Insert(ctx context.Context, rec *domain.Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO messages (
            id, room, message, sender_id, timestamp
        ) VALUES ($1, $2, $3, $4, $5)
    `,
		rec.ID,
		rec.Room,
		rec.Message,
		rec.SenderID,
		rec.Timestamp,
	)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (r *MessageRepo) FindAll(ctx context.Context) ([]domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, room, message, sender_id, timestamp
		FROM messages
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.Record
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(
			&rec.ID,
			&rec.Room,
			&rec.Message,
			&rec.SenderID,
			&rec.Timestamp,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
