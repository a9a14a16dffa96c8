package repository

import (
	"context"
	"time"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.MessageRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Append(ctx context.Context, input repository.AppendMessageInput) (*repository.TrackedMessage, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO tracked_messages (id, channel_id, author_id, author_name, content, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, channel_id, author_id, author_name, content, sent_at`,
		uuid.NewString(), input.ChannelID, input.AuthorID, input.AuthorName, input.Content, input.SentAt)
	var m repository.TrackedMessage
	if err := row.Scan(&m.ID, &m.ChannelID, &m.AuthorID, &m.AuthorName, &m.Content, &m.SentAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepository) ListRecent(ctx context.Context, channelID string, limit int) ([]repository.TrackedMessage, error) {
	limit = max(limit, 0)
	rows, err := r.pool.Query(ctx,
		`SELECT id, channel_id, author_id, author_name, content, sent_at FROM (
			SELECT id, channel_id, author_id, author_name, content, sent_at
			FROM tracked_messages WHERE channel_id = $1
			ORDER BY sent_at DESC LIMIT NULLIF($2::int, 0)
		 ) recent ORDER BY sent_at ASC`,
		channelID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.TrackedMessage
	for rows.Next() {
		var m repository.TrackedMessage
		if err := rows.Scan(&m.ID, &m.ChannelID, &m.AuthorID, &m.AuthorName, &m.Content, &m.SentAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tracked_messages WHERE sent_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
