package repository

import (
	"context"

	"fsanano/coffee-shop/internal/model"
)

func (r *ShopRepository) CreateUser(ctx context.Context, u model.User) error {
	_, err := r.getExecutor(ctx).Exec(ctx,
		"INSERT INTO users (id, name, email, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt)
	if err != nil {
		return mapError(err, "user "+u.Email)
	}
	return nil
}

func (r *ShopRepository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.getExecutor(ctx).QueryRow(ctx,
		"SELECT id, name, email, password_hash, role, created_at FROM users WHERE email = $1", email).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		return model.User{}, mapError(err, "user "+email)
	}
	return u, nil
}
