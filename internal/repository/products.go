package repository

import (
	"context"
	"fmt"

	"fsanano/coffee-shop/internal/model"

	"github.com/jackc/pgx/v5"
)

const productColumns = "id, name, price, category, description, image, created_at, updated_at"

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Description, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListProducts returns the whole catalog, newest first.
func (r *ShopRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := r.getExecutor(ctx).Query(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY created_at DESC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *ShopRepository) GetProduct(ctx context.Context, id string) (model.Product, error) {
	p, err := scanProduct(r.getExecutor(ctx).QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id))
	if err != nil {
		return model.Product{}, mapError(err, "product "+id)
	}
	return p, nil
}

func (r *ShopRepository) CreateProduct(ctx context.Context, p model.Product) error {
	_, err := r.getExecutor(ctx).Exec(ctx,
		"INSERT INTO products ("+productColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		p.ID, p.Name, p.Price, p.Category, p.Description, p.Image, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return mapError(err, "failed to create product")
	}
	return nil
}

func (r *ShopRepository) UpdateProduct(ctx context.Context, p model.Product) error {
	tag, err := r.getExecutor(ctx).Exec(ctx,
		`UPDATE products
		 SET name = $2, price = $3, category = $4, description = $5, image = $6, updated_at = $7
		 WHERE id = $1`,
		p.ID, p.Name, p.Price, p.Category, p.Description, p.Image, p.UpdatedAt)
	if err != nil {
		return mapError(err, "failed to update product")
	}
	return requireAffected(tag, "product "+p.ID)
}

func (r *ShopRepository) DeleteProduct(ctx context.Context, id string) error {
	tag, err := r.getExecutor(ctx).Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return requireAffected(tag, "product "+id)
}

func (r *ShopRepository) CountProducts(ctx context.Context) (int, error) {
	return r.count(ctx, "products")
}
