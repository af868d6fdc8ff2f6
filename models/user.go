package models

import "time"

type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleRestaurant UserRole = "restaurant"
	RoleAdmin      UserRole = "admin"
)

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:50;not null" json:"name"`
	Email       string    `gorm:"size:50;unique;not null" json:"email"`
	Phone       string    `gorm:"size:10;index" json:"phone"`
	Password    string    `gorm:"size:255;not null" json:"-"`
	Role        UserRole  `gorm:"type:VARCHAR(20);default:'user'" json:"role"`
	Avatar      string    `gorm:"size:100" json:"avatar"`
	Active      bool      `gorm:"default:true" json:"active"`
	CreatedDate time.Time `gorm:"autoCreateTime" json:"created_date"`

	Orders  []Order  `gorm:"foreignKey:UserID" json:"-"`
	Reviews []Review `gorm:"foreignKey:UserID" json:"-"`
}
