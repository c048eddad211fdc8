package users

import (
	"stockroom-backend/pkg/db/models"
)

// ContactDTO carries the identity fields received from the chat gateway.
type ContactDTO struct {
	UserID    int64
	Username  *string
	FirstName string
}

// ToModel maps the contact onto a persistent user row.
func (d ContactDTO) ToModel() *models.User {
	return &models.User{
		ID:        d.UserID,
		Username:  d.Username,
		FirstName: d.FirstName,
	}
}
