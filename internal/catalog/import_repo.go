package catalog

import (
	"context"

	"gorm.io/gorm"

	"stockroom-backend/pkg/db/models"
)

// ListAll loads every product row, keyed by article.
func (r *Repository) ListAll(ctx context.Context) (map[string]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]models.Product, len(rows))
	for _, p := range rows {
		out[p.Article] = p
	}
	return out, nil
}

// CreateBatch inserts the provided products in one statement.
func (r *Repository) CreateBatch(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&products).Error
}

// UpdateImported overwrites the catalog fields of an existing product.
func (r *Repository) UpdateImported(ctx context.Context, product models.Product) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":        product.Name,
			"department":  product.Department,
			"group_label": product.GroupLabel,
			"stock_qty":   product.StockQty,
			"is_active":   true,
		}).Error
}

// DeleteByArticles removes the products carrying the given articles and
// reports how many rows went away.
func (r *Repository) DeleteByArticles(ctx context.Context, articles []string) (int64, error) {
	if len(articles) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("article IN ?", articles).
		Delete(&models.Product{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// ResetAllReserved zeroes the reserved counter on every row. Runs as part
// of an import, where fresh stock figures supersede outstanding holds.
func (r *Repository) ResetAllReserved(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("1 = 1").
		UpdateColumn("reserved", gorm.Expr("0")).Error
}

// Count returns the number of product rows.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
