package entity

import (
	"time"
)

// User is the aggregate root for the user domain, held in the operational
// document store. The ID is the store-allocated numeric key rendered as a
// string and is immutable once assigned.
//
// Password is stored exactly as supplied. That is a known defect carried over
// from the system this one replaces; hashing is a product decision that has
// not been taken.
type User struct {
	ID        string
	Name      string
	DOB       time.Time
	Email     string
	Password  string
	Phone     string
	Gender    string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
