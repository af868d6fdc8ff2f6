package models

import "time"

type Category struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"size:50;unique;not null" json:"name"`
	Image string `gorm:"size:400" json:"image"`

	Restaurants []Restaurant `gorm:"foreignKey:CategoryID" json:"-"`
}

type Restaurant struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerUserID    uint      `gorm:"not null;index" json:"owner_user_id"`
	CategoryID     *uint     `json:"category_id"`
	RestaurantName string    `gorm:"size:50;not null" json:"restaurant_name"`
	Address        string    `gorm:"size:100" json:"address"`
	Lat            float64   `json:"lat"`
	Lng            float64   `json:"lng"`
	Description    string    `gorm:"size:100" json:"description"`
	Image          string    `gorm:"size:500" json:"image"`
	OpenTime       string    `gorm:"size:5" json:"open_time"`
	CloseTime      string    `gorm:"size:5" json:"close_time"`
	Status         bool      `gorm:"default:true" json:"status"`
	Active         bool      `gorm:"default:false" json:"active"`
	StarAverage    float64   `gorm:"default:0" json:"star_average"`
	CreatedDate    time.Time `gorm:"autoCreateTime" json:"created_date"`

	Owner    User      `gorm:"foreignKey:OwnerUserID" json:"-"`
	Dishes   []Dish    `gorm:"foreignKey:RestaurantID" json:"-"`
	Orders   []Order   `gorm:"foreignKey:RestaurantID" json:"-"`
	Reviews  []Review  `gorm:"foreignKey:RestaurantID" json:"-"`
	Vouchers []Voucher `gorm:"foreignKey:RestaurantID" json:"-"`
}
