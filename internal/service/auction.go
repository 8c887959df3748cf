package service

import (
	"context"
	"errors"
	"time"

	"github.com/bidmarket/auction-service/internal/models"
	"github.com/bidmarket/auction-service/internal/repository"
	"gorm.io/gorm"
)

var (
	// ErrAuctionNotFound covers both a missing auction and one owned by
	// someone else; callers cannot tell the two apart.
	ErrAuctionNotFound = errors.New("auction not found or unauthorized")
	ErrAuctionClosed   = errors.New("auction is closed")
	ErrBidTooLow       = errors.New("bid must be higher than current bid")
	ErrOwnAuctionBid   = errors.New("cannot bid on your own auction")
	ErrMissingFields   = errors.New("missing required fields")
	ErrInvalidPrice    = errors.New("starting price must be greater than zero")
	ErrInvalidDates    = errors.New("end date must be after start date")
	ErrTooManyImages   = errors.New("a listing can have at most 5 images")
	ErrEmptyField      = errors.New("field cannot be empty")
)

// maxImages is the per-listing image cap, enforced server-side.
const maxImages = 5

// CreateAuctionInput holds the fields required to open a new listing.
type CreateAuctionInput struct {
	Title         string
	Description   string
	StartingPrice float64
	StartDate     time.Time
	EndDate       time.Time
	Category      string
	Location      string
	Images        []string
}

// UpdateAuctionInput is a partial patch. Nil fields are left unchanged; a
// present empty string on a required field is rejected.
type UpdateAuctionInput struct {
	Title       *string
	Description *string
	Category    *string
	Location    *string
	EndDate     *time.Time
}

// AuctionService governs the auction lifecycle: creation, the one-way
// open-to-closed transition, bid acceptance, and owner-restricted mutation.
type AuctionService interface {
	Create(ctx context.Context, sellerID int64, input CreateAuctionInput) (*models.Auction, error)
	List(ctx context.Context) ([]models.Auction, error)
	PlaceBid(ctx context.Context, auctionID, bidderID int64, amount float64) (*models.Auction, error)
	Update(ctx context.Context, auctionID, sellerID int64, patch UpdateAuctionInput) (*models.Auction, error)
	Delete(ctx context.Context, auctionID, sellerID int64) error
}

type auctionService struct {
	auctionRepo repository.AuctionRepository
	now         func() time.Time
}

// NewAuctionService creates a new AuctionService instance.
func NewAuctionService(auctionRepo repository.AuctionRepository) AuctionService {
	return &auctionService{
		auctionRepo: auctionRepo,
		now:         time.Now,
	}
}

func (s *auctionService) Create(ctx context.Context, sellerID int64, input CreateAuctionInput) (*models.Auction, error) {
	if input.Title == "" || input.Description == "" || input.Category == "" || input.Location == "" ||
		input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, ErrMissingFields
	}
	if input.StartingPrice <= 0 {
		return nil, ErrInvalidPrice
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, ErrInvalidDates
	}
	if len(input.Images) > maxImages {
		return nil, ErrTooManyImages
	}

	auction := &models.Auction{
		Title:         input.Title,
		Description:   input.Description,
		StartingPrice: input.StartingPrice,
		CurrentBid:    input.StartingPrice,
		SellerID:      sellerID,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Category:      input.Category,
		Location:      input.Location,
		Images:        input.Images,
	}
	if err := s.auctionRepo.Create(ctx, auction); err != nil {
		return nil, err
	}
	return auction, nil
}

func (s *auctionService) List(ctx context.Context) ([]models.Auction, error) {
	// Flip everything overdue in one write so listings never show a stale
	// open flag.
	if err := s.auctionRepo.CloseExpired(ctx, s.now()); err != nil {
		return nil, err
	}
	return s.auctionRepo.FindAll(ctx)
}

func (s *auctionService) PlaceBid(ctx context.Context, auctionID, bidderID int64, amount float64) (*models.Auction, error) {
	auction, err := s.auctionRepo.FindByID(ctx, auctionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}

	if err := s.refreshClosed(ctx, auction); err != nil {
		return nil, err
	}
	if auction.IsClosed {
		return nil, ErrAuctionClosed
	}
	if auction.SellerID == bidderID {
		return nil, ErrOwnAuctionBid
	}
	if amount <= auction.CurrentBid {
		return nil, ErrBidTooLow
	}

	// The conditional write is the authority; the checks above only produce
	// friendlier errors for the common case. Two racing bids both reach this
	// point, but only the one the database applies first wins.
	accepted, err := s.auctionRepo.PlaceBid(ctx, auctionID, bidderID, amount)
	if err != nil {
		return nil, err
	}
	if !accepted {
		// Lost the race: re-read to tell a closed auction from an outbid.
		current, err := s.auctionRepo.FindByID(ctx, auctionID)
		if err != nil {
			return nil, err
		}
		if current.IsClosed || current.Expired(s.now()) {
			return nil, ErrAuctionClosed
		}
		return nil, ErrBidTooLow
	}

	auction.CurrentBid = amount
	auction.CurrentBidderID = &bidderID
	return auction, nil
}

func (s *auctionService) Update(ctx context.Context, auctionID, sellerID int64, patch UpdateAuctionInput) (*models.Auction, error) {
	auction, err := s.auctionRepo.FindByIDAndSeller(ctx, auctionID, sellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}

	if err := s.refreshClosed(ctx, auction); err != nil {
		return nil, err
	}
	if auction.IsClosed {
		return nil, ErrAuctionClosed
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, ErrEmptyField
		}
		auction.Title = *patch.Title
	}
	if patch.Description != nil {
		if *patch.Description == "" {
			return nil, ErrEmptyField
		}
		auction.Description = *patch.Description
	}
	if patch.Category != nil {
		if *patch.Category == "" {
			return nil, ErrEmptyField
		}
		auction.Category = *patch.Category
	}
	if patch.Location != nil {
		if *patch.Location == "" {
			return nil, ErrEmptyField
		}
		auction.Location = *patch.Location
	}
	if patch.EndDate != nil {
		if !patch.EndDate.After(auction.StartDate) {
			return nil, ErrInvalidDates
		}
		auction.EndDate = *patch.EndDate
	}

	if err := s.auctionRepo.Update(ctx, auction); err != nil {
		return nil, err
	}
	return auction, nil
}

func (s *auctionService) Delete(ctx context.Context, auctionID, sellerID int64) error {
	deleted, err := s.auctionRepo.DeleteByIDAndSeller(ctx, auctionID, sellerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrAuctionNotFound
	}
	return nil
}

// refreshClosed applies the lazy open-to-closed transition: if the bidding
// window has passed and the flag is still false, it is flipped and persisted
// before the caller proceeds.
func (s *auctionService) refreshClosed(ctx context.Context, auction *models.Auction) error {
	if auction.IsClosed || !auction.Expired(s.now()) {
		return nil
	}
	if err := s.auctionRepo.MarkClosed(ctx, auction.ID); err != nil {
		return err
	}
	auction.IsClosed = true
	return nil
}
