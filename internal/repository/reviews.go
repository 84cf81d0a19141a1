package repository

import (
	"context"
	"fmt"

	"fsanano/coffee-shop/internal/model"
)

func (r *ShopRepository) CreateReview(ctx context.Context, rv model.Review) error {
	_, err := r.getExecutor(ctx).Exec(ctx,
		"INSERT INTO reviews (id, name, rating, text, created_at) VALUES ($1, $2, $3, $4, $5)",
		rv.ID, rv.Name, rv.Rating, rv.Text, rv.CreatedAt)
	if err != nil {
		return mapError(err, "failed to create review")
	}
	return nil
}

func (r *ShopRepository) ListReviews(ctx context.Context) ([]model.Review, error) {
	rows, err := r.getExecutor(ctx).Query(ctx,
		"SELECT id, name, rating, text, created_at FROM reviews ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.Name, &rv.Rating, &rv.Text, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (r *ShopRepository) CountReviews(ctx context.Context) (int, error) {
	return r.count(ctx, "reviews")
}
