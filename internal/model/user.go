package model

import "time"

// User is referenced by actor, assignee, reporter and member fields.
// Authentication lives outside this module; the record only resolves refs.
type User struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	Email     string `gorm:"uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
