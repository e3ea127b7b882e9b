package models

import "time"

// StaffRole defines who may drive which part of the floor
type StaffRole string

const (
	RoleCaptain StaffRole = "captain"
	RolePOS     StaffRole = "pos"
)

type StaffUser struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         StaffRole `json:"role" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Counter backs the readable id sequences (M11, T7, O1)
type Counter struct {
	Name  string `gorm:"primaryKey;size:16"`
	Value int    `gorm:"not null"`
}
