package domain

import (
	"time"
)

// CREATE TABLE public.products (
//     id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     title        TEXT NOT NULL,
//     description  TEXT,
//     price_cents  BIGINT NOT NULL,
//     image_url    TEXT,
//     created_at   TIMESTAMPTZ DEFAULT NOW()
// );

type Product struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"column:title;type:text;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	PriceCents  int64     `gorm:"column:price_cents;not null" json:"price_cents"`
	ImageURL    string    `gorm:"column:image_url;type:text" json:"image_url,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}
