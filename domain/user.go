package domain

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID          uint   `gorm:"primaryKey"`
	DisplayName string `gorm:"column:display_name;not null"`
	Email       string `gorm:"column:email;unique;not null"`
	Password    string `gorm:"column:password;not null"`
	Role        string `gorm:"column:role;default:player"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
