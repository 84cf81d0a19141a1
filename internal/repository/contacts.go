package repository

import (
	"context"
	"fmt"

	"fsanano/coffee-shop/internal/model"
)

func (r *ShopRepository) CreateContact(ctx context.Context, m model.ContactMessage) error {
	_, err := r.getExecutor(ctx).Exec(ctx,
		"INSERT INTO contact_messages (id, name, email, subject, message, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		m.ID, m.Name, m.Email, m.Subject, m.Message, m.CreatedAt)
	if err != nil {
		return mapError(err, "failed to create contact message")
	}
	return nil
}

func (r *ShopRepository) ListContacts(ctx context.Context) ([]model.ContactMessage, error) {
	rows, err := r.getExecutor(ctx).Query(ctx,
		"SELECT id, name, email, subject, message, created_at FROM contact_messages ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	msgs := []model.ContactMessage{}
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return msgs, nil
}

func (r *ShopRepository) CountContacts(ctx context.Context) (int, error) {
	return r.count(ctx, "contact_messages")
}
