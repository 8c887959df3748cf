package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/bidmarket/auction-service/internal/models"
	"github.com/bidmarket/auction-service/internal/service"
	"github.com/bidmarket/auction-service/internal/uploads"
	"github.com/gin-gonic/gin"
)

// =============================================================================
// Mock AuctionService
// =============================================================================

type mockAuctionService struct {
	createFunc   func(ctx context.Context, sellerID int64, input service.CreateAuctionInput) (*models.Auction, error)
	listFunc     func(ctx context.Context) ([]models.Auction, error)
	placeBidFunc func(ctx context.Context, auctionID, bidderID int64, amount float64) (*models.Auction, error)
	updateFunc   func(ctx context.Context, auctionID, sellerID int64, patch service.UpdateAuctionInput) (*models.Auction, error)
	deleteFunc   func(ctx context.Context, auctionID, sellerID int64) error
}

func (m *mockAuctionService) Create(ctx context.Context, sellerID int64, input service.CreateAuctionInput) (*models.Auction, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, sellerID, input)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuctionService) List(ctx context.Context) ([]models.Auction, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuctionService) PlaceBid(ctx context.Context, auctionID, bidderID int64, amount float64) (*models.Auction, error) {
	if m.placeBidFunc != nil {
		return m.placeBidFunc(ctx, auctionID, bidderID, amount)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuctionService) Update(ctx context.Context, auctionID, sellerID int64, patch service.UpdateAuctionInput) (*models.Auction, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, auctionID, sellerID, patch)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuctionService) Delete(ctx context.Context, auctionID, sellerID int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, auctionID, sellerID)
	}
	return errors.New("not implemented")
}

// =============================================================================
// Test Helpers
// =============================================================================

// asUser injects the authenticated account id the way the auth middleware
// does.
func asUser(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", id)
		c.Next()
	}
}

func setupAuctionRouter(t *testing.T, mock *mockAuctionService, userID int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := uploads.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create upload store: %v", err)
	}
	handler := NewAuctionHandler(mock, store)

	router := gin.New()
	authed := router.Group("/", asUser(userID))
	authed.POST("/api/auctions", handler.Create)
	authed.POST("/api/auctions/:id/bid", handler.Bid)
	authed.PUT("/api/auctions/:id", handler.Update)
	authed.DELETE("/api/auctions/:id", handler.Delete)
	router.GET("/api/auctions", handler.List)
	return router
}

func multipartAuctionRequest(t *testing.T, imageCount int) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":         "Vintage camera",
		"description":   "Working Leica M3",
		"startingPrice": "100",
		"startDate":     "2025-06-01T12:00:00Z",
		"endDate":       "2025-06-02T12:00:00Z",
		"category":      "collectibles",
		"location":      "Riga",
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("Failed to write field %s: %v", k, err)
		}
	}

	for i := 0; i < imageCount; i++ {
		part, err := writer.CreateFormFile("images", fmt.Sprintf("photo%d.jpg", i))
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := part.Write([]byte("jpeg-bytes")); err != nil {
			t.Fatalf("Failed to write form file: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auctions", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// =============================================================================
// Create Tests
// =============================================================================

func TestCreateAuctionHandler(t *testing.T) {
	var gotInput service.CreateAuctionInput
	var gotSeller int64
	mock := &mockAuctionService{
		createFunc: func(ctx context.Context, sellerID int64, input service.CreateAuctionInput) (*models.Auction, error) {
			gotSeller = sellerID
			gotInput = input
			return &models.Auction{ID: 1, Title: input.Title, CurrentBid: input.StartingPrice}, nil
		},
	}
	router := setupAuctionRouter(t, mock, 7)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartAuctionRequest(t, 2))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if gotSeller != 7 {
		t.Errorf("sellerID = %d, want 7", gotSeller)
	}
	if gotInput.Title != "Vintage camera" || gotInput.StartingPrice != 100 {
		t.Errorf("input = %+v, want form fields bound", gotInput)
	}
	if len(gotInput.Images) != 2 {
		t.Fatalf("len(Images) = %d, want 2", len(gotInput.Images))
	}
	for _, ref := range gotInput.Images {
		if ref == "/uploads/photo0.jpg" || ref == "/uploads/photo1.jpg" {
			t.Errorf("image ref %q reuses the client filename", ref)
		}
	}
}

func TestCreateAuctionHandler_SavesFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := uploads.NewStore(dir)
	if err != nil {
		t.Fatalf("Failed to create upload store: %v", err)
	}
	mock := &mockAuctionService{
		createFunc: func(ctx context.Context, sellerID int64, input service.CreateAuctionInput) (*models.Auction, error) {
			return &models.Auction{ID: 1}, nil
		},
	}
	handler := NewAuctionHandler(mock, store)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/auctions", asUser(7), handler.Create)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartAuctionRequest(t, 3))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read upload dir: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("stored files = %d, want 3", len(entries))
	}
}

func TestCreateAuctionHandler_TooManyImages(t *testing.T) {
	mock := &mockAuctionService{
		createFunc: func(ctx context.Context, sellerID int64, input service.CreateAuctionInput) (*models.Auction, error) {
			t.Error("Create() should not be called when the image cap is exceeded")
			return nil, nil
		},
	}
	router := setupAuctionRouter(t, mock, 7)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartAuctionRequest(t, 6))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCreateAuctionHandler_ValidationError(t *testing.T) {
	mock := &mockAuctionService{
		createFunc: func(ctx context.Context, sellerID int64, input service.CreateAuctionInput) (*models.Auction, error) {
			return nil, service.ErrInvalidDates
		},
	}
	router := setupAuctionRouter(t, mock, 7)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartAuctionRequest(t, 0))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// =============================================================================
// Bid Tests
// =============================================================================

func TestBidHandler(t *testing.T) {
	bidder := int64(7)
	mock := &mockAuctionService{
		placeBidFunc: func(ctx context.Context, auctionID, bidderID int64, amount float64) (*models.Auction, error) {
			if auctionID != 3 || bidderID != 7 || amount != 150 {
				t.Errorf("PlaceBid(%d, %d, %v), want (3, 7, 150)", auctionID, bidderID, amount)
			}
			return &models.Auction{ID: auctionID, CurrentBid: amount, CurrentBidderID: &bidder}, nil
		},
	}
	router := setupAuctionRouter(t, mock, 7)

	var buf bytes.Buffer
	buf.WriteString(`{"amount": 150}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auctions/3/bid", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestBidHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{name: "auction missing", path: "/api/auctions/3/bid", body: `{"amount":150}`, serviceErr: service.ErrAuctionNotFound, wantStatus: http.StatusNotFound},
		{name: "auction closed", path: "/api/auctions/3/bid", body: `{"amount":150}`, serviceErr: service.ErrAuctionClosed, wantStatus: http.StatusBadRequest},
		{name: "bid too low", path: "/api/auctions/3/bid", body: `{"amount":50}`, serviceErr: service.ErrBidTooLow, wantStatus: http.StatusBadRequest},
		{name: "own auction", path: "/api/auctions/3/bid", body: `{"amount":150}`, serviceErr: service.ErrOwnAuctionBid, wantStatus: http.StatusBadRequest},
		{name: "bad auction id", path: "/api/auctions/abc/bid", body: `{"amount":150}`, wantStatus: http.StatusBadRequest},
		{name: "missing amount", path: "/api/auctions/3/bid", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "infrastructure failure", path: "/api/auctions/3/bid", body: `{"amount":150}`, serviceErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAuctionService{
				placeBidFunc: func(ctx context.Context, auctionID, bidderID int64, amount float64) (*models.Auction, error) {
					return nil, tt.serviceErr
				},
			}
			router := setupAuctionRouter(t, mock, 7)

			req := httptest.NewRequest(http.MethodPost, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

// =============================================================================
// Update Tests
// =============================================================================

func TestUpdateHandler(t *testing.T) {
	mock := &mockAuctionService{
		updateFunc: func(ctx context.Context, auctionID, sellerID int64, patch service.UpdateAuctionInput) (*models.Auction, error) {
			if patch.Title == nil || *patch.Title != "New title" {
				t.Errorf("patch.Title = %v, want New title", patch.Title)
			}
			if patch.Description != nil {
				t.Error("absent fields must stay nil in the patch")
			}
			return &models.Auction{ID: auctionID, Title: *patch.Title}, nil
		},
	}
	router := setupAuctionRouter(t, mock, 7)

	req := httptest.NewRequest(http.MethodPut, "/api/auctions/3", bytes.NewBufferString(`{"title":"New title"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestUpdateHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "not found or unauthorized", serviceErr: service.ErrAuctionNotFound, wantStatus: http.StatusNotFound},
		{name: "closed", serviceErr: service.ErrAuctionClosed, wantStatus: http.StatusBadRequest},
		{name: "empty field", serviceErr: service.ErrEmptyField, wantStatus: http.StatusBadRequest},
		{name: "bad dates", serviceErr: service.ErrInvalidDates, wantStatus: http.StatusBadRequest},
		{name: "infrastructure failure", serviceErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAuctionService{
				updateFunc: func(ctx context.Context, auctionID, sellerID int64, patch service.UpdateAuctionInput) (*models.Auction, error) {
					return nil, tt.serviceErr
				},
			}
			router := setupAuctionRouter(t, mock, 7)

			req := httptest.NewRequest(http.MethodPut, "/api/auctions/3", bytes.NewBufferString(`{"title":"x"}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

// =============================================================================
// Delete Tests
// =============================================================================

func TestDeleteHandler(t *testing.T) {
	mock := &mockAuctionService{
		deleteFunc: func(ctx context.Context, auctionID, sellerID int64) error {
			if auctionID != 3 || sellerID != 7 {
				t.Errorf("Delete(%d, %d), want (3, 7)", auctionID, sellerID)
			}
			return nil
		},
	}
	router := setupAuctionRouter(t, mock, 7)

	req := httptest.NewRequest(http.MethodDelete, "/api/auctions/3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestDeleteHandler_NotFound(t *testing.T) {
	mock := &mockAuctionService{
		deleteFunc: func(ctx context.Context, auctionID, sellerID int64) error {
			return service.ErrAuctionNotFound
		},
	}
	router := setupAuctionRouter(t, mock, 7)

	req := httptest.NewRequest(http.MethodDelete, "/api/auctions/3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// =============================================================================
// List Tests
// =============================================================================

func TestListHandler(t *testing.T) {
	bidder := int64(2)
	mock := &mockAuctionService{
		listFunc: func(ctx context.Context) ([]models.Auction, error) {
			return []models.Auction{
				{
					ID:              1,
					Title:           "Vintage camera",
					CurrentBid:      150,
					CurrentBidderID: &bidder,
					Seller:          &models.User{ID: 1, Email: "seller@x.com"},
					CurrentBidder:   &models.User{ID: 2, Email: "bidder@x.com"},
					EndDate:         time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
				},
			}, nil
		},
	}
	router := setupAuctionRouter(t, mock, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/auctions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !bytes.Contains([]byte(body), []byte("seller@x.com")) {
		t.Error("response should resolve the seller email")
	}
	if bytes.Contains([]byte(body), []byte("password")) {
		t.Error("response must never include password material")
	}
}

func TestListHandler_Error(t *testing.T) {
	mock := &mockAuctionService{
		listFunc: func(ctx context.Context) ([]models.Auction, error) {
			return nil, errors.New("db down")
		},
	}
	router := setupAuctionRouter(t, mock, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/auctions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
