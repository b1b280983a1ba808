package models

import "time"

// Product represents a single catalog entry.
// Name, Price and Description are replaced as a unit on update; ID and
// CreatedAt never change after insertion.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Price       float64   `json:"price" gorm:"not null" validate:"required,gt=0"`
	Description string    `json:"description" gorm:"type:varchar(500);not null" validate:"required,max=500"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
