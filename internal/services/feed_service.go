package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/dto"
	"github.com/jewelen/marketplace-backend/internal/importer"
	"github.com/jewelen/marketplace-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrFeedNotFound   = errors.New("feed not found")
	ErrFeedIncomplete = errors.New("feed source details incomplete")
)

type FeedService struct {
	db  *gorm.DB
	imp *importer.Importer
}

func NewFeedService(db *gorm.DB, imp *importer.Importer) *FeedService {
	return &FeedService{db: db, imp: imp}
}

// Register stores a feed for scheduled re-import. The mapping is
// validated the same way an ad hoc import validates it.
func (s *FeedService) Register(sellerID uuid.UUID, req *dto.CreateFeedRequest) (*models.SupplierFeed, error) {
	source := models.FeedSource(req.Source)
	switch source {
	case models.FeedSourceURL:
		if req.URL == "" {
			return nil, ErrFeedIncomplete
		}
	case models.FeedSourceSFTP:
		if req.SFTPHost == "" || req.SFTPUser == "" || req.SFTPPass == "" || req.SFTPPath == "" {
			return nil, ErrFeedIncomplete
		}
	default:
		return nil, ErrFeedIncomplete
	}

	mapping, err := json.Marshal(req.Mapping)
	if err != nil {
		return nil, fmt.Errorf("invalid mapping: %w", err)
	}

	feed := models.SupplierFeed{
		ID:           uuid.New(),
		SellerID:     sellerID,
		Source:       source,
		URL:          req.URL,
		SFTPHost:     req.SFTPHost,
		SFTPUser:     req.SFTPUser,
		SFTPPassword: req.SFTPPass,
		SFTPPath:     req.SFTPPath,
		Mapping:      mapping,
		Active:       true,
	}
	if err := s.db.Create(&feed).Error; err != nil {
		return nil, fmt.Errorf("failed to register feed: %w", err)
	}
	return &feed, nil
}

func (s *FeedService) List(sellerID uuid.UUID) ([]models.SupplierFeed, error) {
	var feeds []models.SupplierFeed
	err := s.db.Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&feeds).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}
	return feeds, nil
}

func (s *FeedService) SetActive(sellerID, id uuid.UUID, active bool) error {
	res := s.db.Model(&models.SupplierFeed{}).
		Where("id = ? AND seller_id = ?", id, sellerID).
		Update("active", active)
	if res.Error != nil {
		return fmt.Errorf("failed to update feed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrFeedNotFound
	}
	return nil
}

func (s *FeedService) Delete(sellerID, id uuid.UUID) error {
	res := s.db.Where("id = ? AND seller_id = ?", id, sellerID).Delete(&models.SupplierFeed{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete feed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrFeedNotFound
	}
	return nil
}

// Run fetches one feed and imports it, recording the outcome on the
// feed row. Errors are stored, not just returned, so the schedule can
// keep running past a broken feed.
func (s *FeedService) Run(ctx context.Context, feed *models.SupplierFeed) (int, int, error) {
	created, updated, err := s.run(ctx, feed)

	now := time.Now()
	updates := map[string]interface{}{"last_run_at": now, "last_error": ""}
	if err != nil {
		updates["last_error"] = err.Error()
	}
	s.db.Model(&models.SupplierFeed{}).Where("id = ?", feed.ID).Updates(updates)

	return created, updated, err
}

func (s *FeedService) run(ctx context.Context, feed *models.SupplierFeed) (int, int, error) {
	mapping, err := importer.ParseMapping(feed.Mapping)
	if err != nil {
		return 0, 0, err
	}

	var data []byte
	switch feed.Source {
	case models.FeedSourceURL:
		data, err = importer.FetchURL(importer.ConvertGoogleSheetsURL(feed.URL))
	case models.FeedSourceSFTP:
		data, err = importer.FetchSFTP(feed.SFTPHost, feed.SFTPUser, feed.SFTPPassword, feed.SFTPPath)
	default:
		err = ErrFeedIncomplete
	}
	if err != nil {
		return 0, 0, err
	}

	rows, err := importer.DocumentRows(data)
	if err != nil {
		return 0, 0, err
	}
	return s.imp.Import(ctx, feed.SellerID, rows, mapping)
}

// RunDue imports every active feed. Called from the cron schedule.
func (s *FeedService) RunDue(ctx context.Context) (int, error) {
	var feeds []models.SupplierFeed
	if err := s.db.Where("active = true").Find(&feeds).Error; err != nil {
		return 0, fmt.Errorf("failed to load active feeds: %w", err)
	}

	failures := 0
	for i := range feeds {
		if _, _, err := s.Run(ctx, &feeds[i]); err != nil {
			failures++
		}
	}
	return failures, nil
}
