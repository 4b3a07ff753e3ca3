package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tag is a user-owned label that can be attached to recipes.
type Tag struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	Name   string `gorm:"size:255;not null" json:"name"`
	UserID uint   `gorm:"not null;index" json:"-"`
	User   *User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Ingredient is a user-owned ingredient that can be attached to recipes.
type Ingredient struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	Name   string `gorm:"size:255;not null" json:"name"`
	UserID uint   `gorm:"not null;index" json:"-"`
	User   *User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Recipe belongs to one user and links to any number of that user's tags
// and ingredients.
type Recipe struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	UserID      uint            `gorm:"not null;index" json:"-"`
	User        *User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	TimeMinutes int             `gorm:"not null" json:"time_minutes"`
	Price       decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"price"`
	Link        string          `gorm:"size:255;not null;default:''" json:"link"`
	Image       string          `gorm:"size:255;not null;default:''" json:"image"`
	Tags        []Tag           `gorm:"many2many:recipe_tags;" json:"tags"`
	Ingredients []Ingredient    `gorm:"many2many:recipe_ingredients;" json:"ingredients"`
}

// TagIDs returns the IDs of the recipe's loaded tags.
func (r *Recipe) TagIDs() []uint {
	ids := make([]uint, 0, len(r.Tags))
	for _, t := range r.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// IngredientIDs returns the IDs of the recipe's loaded ingredients.
func (r *Recipe) IngredientIDs() []uint {
	ids := make([]uint, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		ids = append(ids, i.ID)
	}
	return ids
}
