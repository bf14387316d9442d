// Package models defines the core data structures for users, dishes and votes.
package models

// User represents a roster entry with plain credentials.
type User struct {
	// Username is the login name, unique within the roster.
	Username string `json:"username"`
	// Password is compared as-is on login.
	Password string `json:"password"`
}

// Dish is the canonical catalog record.
type Dish struct {
	// ID is the stable identifier of the dish across catalog reloads.
	ID int `json:"id"`
	// DishName is the display name.
	DishName string `json:"dishName"`
	// Description is a short text shown next to the name.
	Description string `json:"description"`
	// SearchTerm is the hint used by image resolvers.
	SearchTerm string `json:"searchTerm,omitempty"`
	// Image is an opaque display URL, empty until resolved.
	Image string `json:"image,omitempty"`
}

// Rank is the place a user gives to a dish.
type Rank int

const (
	// RankFirst is worth 30 points.
	RankFirst Rank = 1
	// RankSecond is worth 20 points.
	RankSecond Rank = 2
	// RankThird is worth 10 points.
	RankThird Rank = 3
)

// Ranks lists every valid rank in order.
var Ranks = []Rank{RankFirst, RankSecond, RankThird}

// Valid reports whether r is one of 1, 2 or 3.
func (r Rank) Valid() bool {
	return r >= RankFirst && r <= RankThird
}

// Points maps a rank to its score. Invalid ranks score 0.
func (r Rank) Points() int {
	switch r {
	case RankFirst:
		return 30
	case RankSecond:
		return 20
	case RankThird:
		return 10
	}
	return 0
}

// Vote is one (user, dish, rank) assignment.
type Vote struct {
	// UserID is the username that cast the vote.
	UserID string `json:"userId"`
	// DishID references Dish.ID.
	DishID int `json:"dishId"`
	// Rank is the place given to the dish.
	Rank Rank `json:"rank"`
}

// RankedDish is a dish projected with its aggregate score.
// It is computed on read and never persisted.
type RankedDish struct {
	Dish
	// Points is the sum of rank points across all users.
	Points int `json:"points"`
	// UserRank is the viewer's own rank for this dish, nil when none.
	UserRank *Rank `json:"userRank,omitempty"`
}
