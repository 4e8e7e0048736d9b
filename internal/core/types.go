package core

// Category identifies one of the harvested economy data categories.
type Category string

const (
	CategoryCurrency Category = "currency"
	CategoryCards    Category = "cards"
	CategoryItems    Category = "items"
)

// Categories lists every category a collection cycle covers, in the order
// they are attempted.
func Categories() []Category {
	return []Category{CategoryCurrency, CategoryCards, CategoryItems}
}

// LeagueStatus represents the lifecycle state of a league.
type LeagueStatus string

const (
	StatusActive  LeagueStatus = "Active"
	StatusExpired LeagueStatus = "Expired"
)
