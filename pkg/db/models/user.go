package models

import "time"

// User is a chat user known to the service. The primary key is the external
// chat id, assigned by the messaging platform rather than the database.
type User struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement:false"`
	Username  *string   `gorm:"column:username;size:100"`
	FirstName string    `gorm:"column:first_name;size:100;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
