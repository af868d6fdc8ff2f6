package models

import "time"

type Review struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurant_id"`
	OrderID      uint      `gorm:"not null;unique" json:"order_id"`
	Star         int       `gorm:"not null" json:"star"`
	Comment      string    `gorm:"size:1000" json:"comment"`
	Image        string    `gorm:"size:1000" json:"image"`
	Date         time.Time `gorm:"autoCreateTime" json:"date"`
}
