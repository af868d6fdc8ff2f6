package models

type DishGroup struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"size:50;not null" json:"name"`
	RestaurantID uint   `gorm:"not null;index" json:"restaurant_id"`

	Dishes []Dish `gorm:"foreignKey:DishGroupID" json:"dishes,omitempty"`
}

type Dish struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	RestaurantID uint    `gorm:"not null;index" json:"restaurant_id"`
	DishGroupID  *uint   `json:"dish_group_id"`
	Name         string  `gorm:"size:50;not null" json:"name"`
	Description  string  `gorm:"size:255" json:"description"`
	Price        float64 `gorm:"not null;default:0" json:"price"`
	Active       bool    `gorm:"default:true" json:"active"`
	Image        string  `gorm:"size:100" json:"image"`

	OptionGroups []DishOptionGroup `gorm:"many2many:dish_has_option_groups" json:"option_groups,omitempty"`
}

type DishOptionGroup struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	RestaurantID uint   `gorm:"not null;index" json:"restaurant_id"`
	Name         string `gorm:"size:50;not null" json:"name"`
	Mandatory    bool   `gorm:"default:false" json:"mandatory"`
	Max          int    `json:"max"`

	Options []DishOption `gorm:"foreignKey:OptionGroupID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

type DishOption struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OptionGroupID uint    `gorm:"not null;index" json:"option_group_id"`
	Name          string  `gorm:"size:50;not null" json:"name"`
	Price         float64 `gorm:"default:0" json:"price"`

	Group DishOptionGroup `gorm:"foreignKey:OptionGroupID" json:"-"`
}
