package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/saleslens/listing-optimizer/internal/core/domain"
	coreerrors "github.com/saleslens/listing-optimizer/internal/core/errors"
)

// Product is an alias for the domain type.
type Product = domain.Product

// UpsertProduct inserts a product or updates it in place keyed by ASIN.
// The update timestamp is always refreshed; created_at is preserved.
func (db *DB) UpsertProduct(ctx context.Context, p *Product) error {
	row := db.Pool.QueryRow(ctx, `
		INSERT INTO products (asin, title, bullet_points, description, image_url, price, availability, rating, review_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (asin) DO UPDATE SET
			title         = EXCLUDED.title,
			bullet_points = EXCLUDED.bullet_points,
			description   = EXCLUDED.description,
			image_url     = EXCLUDED.image_url,
			price         = EXCLUDED.price,
			availability  = EXCLUDED.availability,
			rating        = EXCLUDED.rating,
			review_count  = EXCLUDED.review_count,
			updated_at    = now()
		RETURNING id, created_at, updated_at
	`,
		p.ASIN,
		sanitizeUTF8(p.Title),
		toText(p.BulletPoints),
		toText(p.Description),
		toText(p.ImageURL),
		toText(p.Price),
		sanitizeUTF8(p.Availability),
		toFloat8Ptr(p.Rating),
		toInt4Ptr(p.ReviewCount),
	)

	var (
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	if err := row.Scan(&p.ID, &createdAt, &updatedAt); err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}

	p.CreatedAt = fromTimestamptz(createdAt)
	p.UpdatedAt = fromTimestamptz(updatedAt)

	return nil
}

// GetProductByASIN loads one product by its identifier.
func (db *DB) GetProductByASIN(ctx context.Context, asinID string) (*Product, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT id, asin, title, bullet_points, description, image_url, price, availability, rating, review_count, created_at, updated_at
		FROM products
		WHERE asin = $1
	`, asinID)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", coreerrors.ErrProductNotFound, asinID)
		}

		return nil, fmt.Errorf("get product by asin: %w", err)
	}

	return product, nil
}

// ListProducts returns one page of products, most recently updated first,
// plus the total row count for pagination metadata.
func (db *DB) ListProducts(ctx context.Context, page, limit int) ([]Product, int64, error) {
	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, asin, title, bullet_points, description, image_url, price, availability, rating, review_count, created_at, updated_at
		FROM products
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2
	`, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0, limit)

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}

		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, total, nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var (
		p            Product
		bulletPoints pgtype.Text
		description  pgtype.Text
		imageURL     pgtype.Text
		price        pgtype.Text
		rating       pgtype.Float8
		reviewCount  pgtype.Int4
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)

	if err := row.Scan(&p.ID, &p.ASIN, &p.Title, &bulletPoints, &description, &imageURL, &price, &p.Availability, &rating, &reviewCount, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	p.BulletPoints = fromText(bulletPoints)
	p.Description = fromText(description)
	p.ImageURL = fromText(imageURL)
	p.Price = fromText(price)
	p.Rating = fromFloat8Ptr(rating)
	p.ReviewCount = fromInt4Ptr(reviewCount)
	p.CreatedAt = fromTimestamptz(createdAt)
	p.UpdatedAt = fromTimestamptz(updatedAt)

	return &p, nil
}
