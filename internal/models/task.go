package models

import "time"

// Category is the closed set of task categories.
type Category string

const (
	CategoryPersonal Category = "Personal"
	CategoryWork     Category = "Work"
	CategoryShopping Category = "Shopping"
	CategoryOther    Category = "Other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryShopping, CategoryOther:
		return true
	}
	return false
}

// Task represents a single to-do item owned by a user. Seq is the store's
// internal insertion-ordered key and breaks created_at ties when listing;
// ID is the external identifier.
type Task struct {
	Seq         uint     `json:"-" gorm:"primaryKey;autoIncrement"`
	ID          string   `json:"id" gorm:"uniqueIndex;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string   `json:"title" gorm:"type:varchar(100)" validate:"required,max=100"`
	Description string   `json:"description" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	Category    Category `json:"category" gorm:"type:varchar(20)" validate:"omitempty,oneof=Personal Work Shopping Other"`
	Completed   bool     `json:"completed"`
	OwnerID     string   `json:"user" gorm:"index;type:varchar(36)"` // immutable after creation

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskUpdate carries a partial update. Nil fields were omitted from the
// request and leave the stored value untouched; a non-nil field is
// validated even when it holds the zero value, so "explicitly cleared"
// and "omitted" stay distinguishable. Completed only decodes from a
// genuine JSON boolean.
type TaskUpdate struct {
	Title       *string   `json:"title" validate:"omitnil,min=1,max=100"`
	Description *string   `json:"description" validate:"omitnil,max=500"`
	Category    *Category `json:"category" validate:"omitnil,oneof=Personal Work Shopping Other"`
	Completed   *bool     `json:"completed"`
}
