package models

// ServiceCategory is a platform-defined, priced service category. BasePrice
// is the hourly rate in the platform currency.
type ServiceCategory struct {
	ID          int     `bson:"id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	BasePrice   float64 `bson:"basePrice" json:"basePrice"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
	IsActive    bool    `bson:"isActive" json:"isActive"`
	SortOrder   int     `bson:"sortOrder" json:"-"`
}

// CustomService is a service tag a companion defined for themselves when no
// catalog category fits.
type CustomService struct {
	CompanionID int    `bson:"companionId" json:"companionId"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}
