package archive

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"stockroom-backend/pkg/db/models"
)

// ListDTO is one archived commit with its lines.
type ListDTO struct {
	ID        uuid.UUID `json:"id"`
	FileName  string    `json:"file_name"`
	CreatedAt time.Time `json:"created_at"`
	Items     []ItemDTO `json:"items"`
}

// ItemDTO is one committed line.
type ItemDTO struct {
	ArticleName string          `json:"article_name"`
	Quantity    decimal.Decimal `json:"quantity"`
}

func listFromModel(list models.SavedList) ListDTO {
	dto := ListDTO{
		ID:        list.ID,
		FileName:  list.FileName,
		CreatedAt: list.CreatedAt,
		Items:     make([]ItemDTO, 0, len(list.Items)),
	}
	for _, item := range list.Items {
		dto.Items = append(dto.Items, ItemDTO{
			ArticleName: item.ArticleName,
			Quantity:    item.Quantity,
		})
	}
	return dto
}
