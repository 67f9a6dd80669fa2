package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Game represents a game in the catalog.
type Game struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"size:100;not null" json:"title"`
	Description *string         `gorm:"size:1000" json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Developer   string          `gorm:"size:100;not null" json:"developer"`
	ReleaseDate time.Time       `gorm:"not null" json:"releaseDate"`
	Rating      *float64        `json:"rating,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	CategoryID *uint     `gorm:"index" json:"-"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Game) TableName() string {
	return "game"
}
