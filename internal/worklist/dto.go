package worklist

import (
	"time"

	"github.com/google/uuid"

	"stockroom-backend/pkg/db/models"
)

// Line is one working list entry joined with its product.
type Line struct {
	ProductID  uuid.UUID `json:"product_id"`
	Article    string    `json:"article"`
	Name       string    `json:"name"`
	Department int       `json:"department"`
	Quantity   int       `json:"quantity"`
	AddedAt    time.Time `json:"added_at"`
}

func lineFromModel(item models.WorkListItem) Line {
	line := Line{
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		AddedAt:   item.CreatedAt,
	}
	if item.Product != nil {
		line.Article = item.Product.Article
		line.Name = item.Product.Name
		line.Department = item.Product.Department
	}
	return line
}
