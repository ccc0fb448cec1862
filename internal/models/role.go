package models

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// RoleRecord is the persisted fact "user X has role Y".
// (user_id, role) is unique in the database.
type RoleRecord struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;type:uuid;uniqueIndex:user_roles_user_id_role_key" json:"user_id"`
	Role      UserRole  `gorm:"column:role;type:text;uniqueIndex:user_roles_user_id_role_key" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (RoleRecord) TableName() string { return "user_roles" }
