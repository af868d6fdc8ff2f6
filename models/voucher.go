package models

import "time"

// Voucher is a restaurant-scoped, time-bounded discount rule. Percent-based
// vouchers discount percent% of the subtotal capped at Max; flat vouchers
// (percent == 0) discount the fixed Limit amount.
type Voucher struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RestaurantID uint      `gorm:"not null;uniqueIndex:idx_restaurant_code" json:"restaurant_id"`
	Code         string    `gorm:"size:10;not null;uniqueIndex:idx_restaurant_code" json:"code"`
	Name         string    `gorm:"size:50" json:"name"`
	Description  string    `gorm:"size:500" json:"description"`
	Percent      float64   `json:"percent"`
	Limit        float64   `json:"limit"`
	Min          float64   `json:"min"`
	Max          float64   `json:"max"`
	StartDate    time.Time `gorm:"not null" json:"start_date"`
	EndDate      time.Time `gorm:"not null" json:"end_date"`
	Active       bool      `gorm:"default:true" json:"active"`
}
