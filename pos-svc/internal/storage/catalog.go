package storage

import (
	"context"

	"tpv-system/pos-svc/internal/domain"
)

type CatalogRepository struct {
	q querier
}

const productColumns = `
	p.id, p.name, COALESCE(p.description, ''), p.price, p.available,
	COALESCE(p.category_id, 0), COALESCE(c.name, ''), p.is_daily_special`

func (r *CatalogRepository) ListMenu(ctx context.Context, locationID int) ([]domain.Product, error) {
	return r.listProducts(ctx, locationID, false)
}

// ListDailySpecials is ListMenu restricted to products flagged as today's special.
func (r *CatalogRepository) ListDailySpecials(ctx context.Context, locationID int) ([]domain.Product, error) {
	return r.listProducts(ctx, locationID, true)
}

func (r *CatalogRepository) listProducts(ctx context.Context, locationID int, specialsOnly bool) ([]domain.Product, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT`+productColumns+`, COALESCE(i.available_quantity, 0)
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		LEFT JOIN inventory i ON i.product_id = p.id AND i.location_id = $1
		WHERE p.available = TRUE AND (NOT $2 OR p.is_daily_special)
		ORDER BY p.name`, locationID, specialsOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Available,
			&p.CategoryID, &p.CategoryName, &p.IsDailySpecial, &p.Stock); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *CatalogRepository) ProductsByIDs(ctx context.Context, ids []int) (map[int]domain.Product, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT`+productColumns+`
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = ANY($1)`, int64s(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make(map[int]domain.Product, len(ids))
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Available,
			&p.CategoryID, &p.CategoryName, &p.IsDailySpecial); err != nil {
			return nil, err
		}
		products[p.ID] = p
	}
	return products, rows.Err()
}

const customizationColumns = `
	id, name, COALESCE(description, ''), COALESCE(category, ''), extra_price, active`

func (r *CatalogRepository) ListCustomizations(ctx context.Context) ([]domain.Customization, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT`+customizationColumns+`
		FROM customizations
		WHERE active = TRUE
		ORDER BY category, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCustomizations(rows)
}

func (r *CatalogRepository) CustomizationsByIDs(ctx context.Context, ids []int) (map[int]domain.Customization, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT`+customizationColumns+`
		FROM customizations
		WHERE id = ANY($1)`, int64s(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list, err := scanCustomizations(rows)
	if err != nil {
		return nil, err
	}
	out := make(map[int]domain.Customization, len(list))
	for _, c := range list {
		out[c.ID] = c
	}
	return out, nil
}

type scanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanCustomizations(rows scanner) ([]domain.Customization, error) {
	list := []domain.Customization{}
	for rows.Next() {
		var c domain.Customization
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Category, &c.ExtraPrice, &c.Active); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT c.id, c.name, COALESCE(c.description, ''), COUNT(p.id)
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id AND p.available = TRUE
		WHERE c.active = TRUE
		GROUP BY c.id, c.name, c.description
		ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ProductCount); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
