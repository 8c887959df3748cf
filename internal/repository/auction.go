package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bidmarket/auction-service/internal/models"
	"gorm.io/gorm"
)

// AuctionRepository defines the interface for auction data operations.
// No business rules live here; callers decide when an auction closes and
// whether a bid is acceptable, this layer only makes those writes atomic.
type AuctionRepository interface {
	Create(ctx context.Context, auction *models.Auction) error
	FindByID(ctx context.Context, id int64) (*models.Auction, error)
	// FindByIDAndSeller matches on both id and seller so a wrong owner and a
	// missing record are indistinguishable to the caller.
	FindByIDAndSeller(ctx context.Context, id, sellerID int64) (*models.Auction, error)
	FindAll(ctx context.Context) ([]models.Auction, error)
	Update(ctx context.Context, auction *models.Auction) error
	// DeleteByIDAndSeller removes the auction and reports whether a row
	// matched.
	DeleteByIDAndSeller(ctx context.Context, id, sellerID int64) (bool, error)
	// MarkClosed flips is_closed for a single auction. The flag is one-way so
	// the write is guarded on is_closed = false.
	MarkClosed(ctx context.Context, id int64) error
	// CloseExpired flips every open auction whose end date has passed.
	CloseExpired(ctx context.Context, now time.Time) error
	// PlaceBid applies a bid with a conditional write: it succeeds only if
	// the auction is still open and the amount is strictly above the current
	// bid at the moment the update lands. Returns false when no row matched,
	// which the caller re-reads to classify.
	PlaceBid(ctx context.Context, id, bidderID int64, amount float64) (bool, error)
}

type auctionRepository struct {
	db *gorm.DB
}

// NewAuctionRepository creates a new AuctionRepository instance.
func NewAuctionRepository(db *gorm.DB) AuctionRepository {
	return &auctionRepository{db: db}
}

func (r *auctionRepository) Create(ctx context.Context, auction *models.Auction) error {
	if err := r.db.WithContext(ctx).Create(auction).Error; err != nil {
		return fmt.Errorf("failed to create auction: %w", err)
	}
	return nil
}

func (r *auctionRepository) FindByID(ctx context.Context, id int64) (*models.Auction, error) {
	var auction models.Auction
	err := r.db.WithContext(ctx).First(&auction, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find auction %d: %w", id, err)
	}
	return &auction, nil
}

func (r *auctionRepository) FindByIDAndSeller(ctx context.Context, id, sellerID int64) (*models.Auction, error) {
	var auction models.Auction
	err := r.db.WithContext(ctx).
		Where("id = ? AND seller_id = ?", id, sellerID).
		First(&auction).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find auction %d for seller %d: %w", id, sellerID, err)
	}
	return &auction, nil
}

func (r *auctionRepository) FindAll(ctx context.Context) ([]models.Auction, error) {
	var auctions []models.Auction
	err := r.db.WithContext(ctx).
		Preload("Seller").
		Preload("CurrentBidder").
		Order("id").
		Find(&auctions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}
	return auctions, nil
}

func (r *auctionRepository) Update(ctx context.Context, auction *models.Auction) error {
	if err := r.db.WithContext(ctx).Save(auction).Error; err != nil {
		return fmt.Errorf("failed to update auction %d: %w", auction.ID, err)
	}
	return nil
}

func (r *auctionRepository) DeleteByIDAndSeller(ctx context.Context, id, sellerID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND seller_id = ?", id, sellerID).
		Delete(&models.Auction{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete auction %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *auctionRepository) MarkClosed(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).
		Model(&models.Auction{}).
		Where("id = ? AND is_closed = ?", id, false).
		Update("is_closed", true).Error
	if err != nil {
		return fmt.Errorf("failed to close auction %d: %w", id, err)
	}
	return nil
}

func (r *auctionRepository) CloseExpired(ctx context.Context, now time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.Auction{}).
		Where("is_closed = ? AND end_date < ?", false, now).
		Update("is_closed", true).Error
	if err != nil {
		return fmt.Errorf("failed to close expired auctions: %w", err)
	}
	return nil
}

func (r *auctionRepository) PlaceBid(ctx context.Context, id, bidderID int64, amount float64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Auction{}).
		Where("id = ? AND is_closed = ? AND current_bid < ?", id, false, amount).
		Updates(map[string]interface{}{
			"current_bid":       amount,
			"current_bidder_id": bidderID,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to place bid on auction %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}
