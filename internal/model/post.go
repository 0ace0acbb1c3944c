package model

import (
	"math"
	"regexp"
	"time"
)

type Category string

const (
	CategoryProject Category = "project"
	CategoryStudy   Category = "study"
)

func (c Category) IsValid() bool {
	return c == CategoryProject || c == CategoryStudy
}

var stackPattern = regexp.MustCompile(`^[a-z]+$`)

// IsLowercaseStack reports whether s is a non-empty run of lowercase ASCII letters.
func IsLowercaseStack(s string) bool {
	return stackPattern.MatchString(s)
}

// MaxCapacity is the largest recruit count the posts.capacity column holds.
const MaxCapacity = math.MaxInt32

const PointType = "Point"

// Location is a GeoJSON-like point. Coordinates are stored as [lat, lng].
type Location struct {
	Type        string     `json:"type" bson:"type"`
	Coordinates [2]float64 `json:"coordinates" bson:"coordinates"`
}

func NewLocation(lat, lng float64) *Location {
	return &Location{Type: PointType, Coordinates: [2]float64{lat, lng}}
}

func (l Location) Lat() float64 { return l.Coordinates[0] }
func (l Location) Lng() float64 { return l.Coordinates[1] }

// PostAuthor is the public projection of a post's author.
type PostAuthor struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	ImageURL string `json:"imageURL"`
}

type Post struct {
	ID               string     `json:"id"`
	Author           PostAuthor `json:"author"`
	Category         Category   `json:"category"`
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	Stacks           []string   `json:"stacks"`
	Capacity         int        `json:"capacity"`
	Location         *Location  `json:"location,omitempty"`
	Address          string     `json:"address"`
	Sido             string     `json:"sido"`
	StartDate        time.Time  `json:"startDate"`
	EndDate          time.Time  `json:"endDate"`
	RegisterDeadline time.Time  `json:"registerDeadline"`
	Views            int64      `json:"views"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type PostListParams struct {
	Category Category
	Page     PageRequest
}

type BookmarkListParams struct {
	UserID string
	// Category may be empty to list bookmarks across all categories.
	Category Category
	Page     PageRequest
}
