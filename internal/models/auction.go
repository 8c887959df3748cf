package models

import "time"

// Auction represents a sellable listing with a time-bounded bidding window.
//
// CurrentBid starts at StartingPrice and only ever increases. CurrentBidderID
// stays nil until the first accepted bid. IsClosed is a one-way flag: it is
// flipped when the auction is first touched after EndDate and never reverts.
type Auction struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"not null"`
	Description     string    `json:"description" gorm:"not null"`
	StartingPrice   float64   `json:"startingPrice" gorm:"not null"`
	CurrentBid      float64   `json:"currentBid" gorm:"not null"`
	CurrentBidderID *int64    `json:"currentBidderId,omitempty"`
	CurrentBidder   *User     `json:"currentBidder,omitempty" gorm:"foreignKey:CurrentBidderID"`
	SellerID        int64     `json:"sellerId" gorm:"index;not null"`
	Seller          *User     `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	StartDate       time.Time `json:"startDate" gorm:"not null"`
	EndDate         time.Time `json:"endDate" gorm:"not null"`
	Images          []string  `json:"images" gorm:"serializer:json"`
	Category        string    `json:"category" gorm:"not null"`
	Location        string    `json:"location" gorm:"not null"`
	IsClosed        bool      `json:"isClosed" gorm:"not null;default:false"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns the database table name for the Auction model.
func (Auction) TableName() string {
	return "auctions"
}

// Expired reports whether the bidding window has passed at the given instant.
// It does not look at IsClosed; callers use it to decide when to flip the flag.
func (a *Auction) Expired(now time.Time) bool {
	return now.After(a.EndDate)
}
