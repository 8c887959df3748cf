package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bidmarket/auction-service/internal/metrics"
	"github.com/bidmarket/auction-service/internal/middleware"
	"github.com/bidmarket/auction-service/internal/service"
	"github.com/bidmarket/auction-service/internal/uploads"
	"github.com/gin-gonic/gin"
)

// maxImageFiles mirrors the service-side cap so oversized uploads are
// rejected before any file hits the disk.
const maxImageFiles = 5

// dateLayouts are the accepted formats for startDate/endDate form fields.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// AuctionHandler handles auction HTTP requests.
type AuctionHandler struct {
	auctionService service.AuctionService
	store          *uploads.Store
}

// NewAuctionHandler creates a new AuctionHandler instance.
func NewAuctionHandler(auctionService service.AuctionService, store *uploads.Store) *AuctionHandler {
	return &AuctionHandler{
		auctionService: auctionService,
		store:          store,
	}
}

// BidRequest represents the bid request payload.
type BidRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// UpdateAuctionRequest represents the partial update payload. Absent fields
// are left unchanged.
type UpdateAuctionRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	Location    *string    `json:"location"`
	EndDate     *time.Time `json:"endDate"`
}

// Create godoc
// @Summary Create auction
// @Description Create a listing from multipart form fields plus up to 5 images
// @Tags auctions
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Success 201 {object} models.Auction
// @Failure 400 {object} map[string]string
// @Router /auctions [post]
func (h *AuctionHandler) Create(c *gin.Context) {
	sellerID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication failed")
		return
	}

	startingPrice, err := strconv.ParseFloat(c.PostForm("startingPrice"), 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Starting price must be a number")
		return
	}
	startDate, err := parseDate(c.PostForm("startDate"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Start date is invalid")
		return
	}
	endDate, err := parseDate(c.PostForm("endDate"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "End date is invalid")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	files := form.File["images"]
	if len(files) > maxImageFiles {
		respondError(c, http.StatusBadRequest, "A listing can have at most 5 images")
		return
	}

	imageRefs := make([]string, 0, len(files))
	for _, file := range files {
		ref, err := h.store.Save(file)
		if err != nil {
			logAndRespondError(c, http.StatusInternalServerError, err, "Error creating auction")
			return
		}
		imageRefs = append(imageRefs, ref)
	}

	auction, err := h.auctionService.Create(c.Request.Context(), sellerID, service.CreateAuctionInput{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		StartingPrice: startingPrice,
		StartDate:     startDate,
		EndDate:       endDate,
		Category:      c.PostForm("category"),
		Location:      c.PostForm("location"),
		Images:        imageRefs,
	})
	if err != nil {
		if isValidationError(err) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		logAndRespondError(c, http.StatusInternalServerError, err, "Error creating auction")
		return
	}

	metrics.AuctionsCreatedTotal.Inc()
	c.JSON(http.StatusCreated, auction)
}

// List godoc
// @Summary List auctions
// @Description List all auctions with seller and current bidder resolved
// @Tags auctions
// @Produce json
// @Success 200 {array} models.Auction
// @Router /auctions [get]
func (h *AuctionHandler) List(c *gin.Context) {
	auctions, err := h.auctionService.List(c.Request.Context())
	if err != nil {
		logAndRespondError(c, http.StatusInternalServerError, err, "Error fetching auctions")
		return
	}
	c.JSON(http.StatusOK, auctions)
}

// Bid godoc
// @Summary Place bid
// @Description Place a bid strictly above the current bid on an open auction
// @Tags auctions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Auction ID"
// @Param request body BidRequest true "Bid amount"
// @Success 200 {object} models.Auction
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auctions/{id}/bid [post]
func (h *AuctionHandler) Bid(c *gin.Context) {
	bidderID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication failed")
		return
	}
	auctionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid auction id")
		return
	}

	var req BidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Bid amount is required")
		return
	}

	auction, err := h.auctionService.PlaceBid(c.Request.Context(), auctionID, bidderID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuctionNotFound):
			respondError(c, http.StatusNotFound, "Auction not found")
		case errors.Is(err, service.ErrAuctionClosed):
			metrics.BidsTotal.WithLabelValues("rejected").Inc()
			respondError(c, http.StatusBadRequest, "Auction is closed")
		case errors.Is(err, service.ErrBidTooLow):
			metrics.BidsTotal.WithLabelValues("rejected").Inc()
			respondError(c, http.StatusBadRequest, "Bid must be higher than current bid")
		case errors.Is(err, service.ErrOwnAuctionBid):
			metrics.BidsTotal.WithLabelValues("rejected").Inc()
			respondError(c, http.StatusBadRequest, "You cannot bid on your own auction")
		default:
			logAndRespondError(c, http.StatusInternalServerError, err, "Error placing bid")
		}
		return
	}

	metrics.BidsTotal.WithLabelValues("accepted").Inc()
	c.JSON(http.StatusOK, auction)
}

// Update godoc
// @Summary Edit auction
// @Description Edit an open auction owned by the caller
// @Tags auctions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Auction ID"
// @Param request body UpdateAuctionRequest true "Fields to change"
// @Success 200 {object} models.Auction
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auctions/{id} [put]
func (h *AuctionHandler) Update(c *gin.Context) {
	sellerID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication failed")
		return
	}
	auctionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid auction id")
		return
	}

	var req UpdateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	auction, err := h.auctionService.Update(c.Request.Context(), auctionID, sellerID, service.UpdateAuctionInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		EndDate:     req.EndDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuctionNotFound):
			respondError(c, http.StatusNotFound, "Auction not found or unauthorized")
		case errors.Is(err, service.ErrAuctionClosed):
			respondError(c, http.StatusBadRequest, "Cannot edit closed auction")
		case isValidationError(err):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			logAndRespondError(c, http.StatusInternalServerError, err, "Error updating auction")
		}
		return
	}

	c.JSON(http.StatusOK, auction)
}

// Delete godoc
// @Summary Delete auction
// @Description Delete an auction owned by the caller
// @Tags auctions
// @Security BearerAuth
// @Produce json
// @Param id path int true "Auction ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auctions/{id} [delete]
func (h *AuctionHandler) Delete(c *gin.Context) {
	sellerID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication failed")
		return
	}
	auctionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid auction id")
		return
	}

	if err := h.auctionService.Delete(c.Request.Context(), auctionID, sellerID); err != nil {
		if errors.Is(err, service.ErrAuctionNotFound) {
			respondError(c, http.StatusNotFound, "Auction not found or unauthorized")
			return
		}
		logAndRespondError(c, http.StatusInternalServerError, err, "Error deleting auction")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Auction deleted successfully"})
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrMissingFields) ||
		errors.Is(err, service.ErrInvalidPrice) ||
		errors.Is(err, service.ErrInvalidDates) ||
		errors.Is(err, service.ErrTooManyImages) ||
		errors.Is(err, service.ErrEmptyField)
}

func parseDate(value string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
