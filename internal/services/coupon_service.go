package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/dto"
	"github.com/jewelen/marketplace-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrCouponNotFound   = errors.New("coupon not found")
	ErrCouponInactive   = errors.New("coupon is not active")
	ErrCouponExpired    = errors.New("coupon has expired")
	ErrCouponExhausted  = errors.New("coupon usage limit reached")
	ErrBelowMinPurchase = errors.New("order total below coupon minimum")
	ErrCouponCodeTaken  = errors.New("coupon code already exists")
)

type CouponService struct {
	db *gorm.DB
}

func NewCouponService(db *gorm.DB) *CouponService {
	return &CouponService{db: db}
}

// CheckRedeemable reports why a coupon cannot be applied to a purchase
// of the given total, or nil if it can. Checks run in a fixed order so
// the caller always gets the most specific failure.
func CheckRedeemable(c *models.Coupon, total float64, now time.Time) error {
	if !c.IsActive {
		return ErrCouponInactive
	}
	if now.After(c.ExpiryDate) {
		return ErrCouponExpired
	}
	if c.TimesUsed >= c.UsageLimit {
		return ErrCouponExhausted
	}
	if total < c.MinPurchaseAmount {
		return ErrBelowMinPurchase
	}
	return nil
}

// ComputeDiscount returns the discount a coupon yields on a total,
// clamped so it never exceeds the total, rounded to 2 decimal places.
func ComputeDiscount(c *models.Coupon, total float64) float64 {
	var discount float64
	switch c.DiscountType {
	case models.DiscountPercentage:
		discount = total * c.DiscountValue / 100
	case models.DiscountFlat:
		discount = c.DiscountValue
	}
	if discount > total {
		discount = total
	}
	return math.Round(discount*100) / 100
}

func (s *CouponService) Create(req *dto.CreateCouponRequest) (*models.Coupon, error) {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	coupon := models.Coupon{
		ID:                uuid.New(),
		Code:              strings.ToUpper(strings.TrimSpace(req.Code)),
		DiscountType:      models.DiscountType(req.DiscountType),
		DiscountValue:     req.DiscountValue,
		MinPurchaseAmount: req.MinPurchaseAmount,
		IsActive:          active,
		ExpiryDate:        req.ExpiryDate,
		UsageLimit:        req.UsageLimit,
	}

	if err := s.db.Create(&coupon).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCouponCodeTaken
		}
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}
	return &coupon, nil
}

func (s *CouponService) List() ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := s.db.Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, nil
}

func (s *CouponService) Delete(id uuid.UUID) error {
	res := s.db.Delete(&models.Coupon{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete coupon: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

// Validate checks a code against a purchase total and returns the
// discount it would yield. It never consumes a use.
func (s *CouponService) Validate(code string, total float64) (*dto.ValidateCouponResponse, error) {
	coupon, err := s.byCode(code)
	if err != nil {
		return nil, err
	}
	if err := CheckRedeemable(coupon, total, time.Now()); err != nil {
		return nil, err
	}

	return &dto.ValidateCouponResponse{
		Success:        true,
		Code:           coupon.Code,
		DiscountAmount: ComputeDiscount(coupon, total),
	}, nil
}

func (s *CouponService) byCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.db.Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&coupon).Error
	if err != nil {
		return nil, ErrCouponNotFound
	}
	return &coupon, nil
}

// Redeem consumes one use atomically. The guarded UPDATE means two
// concurrent verifications can never push TimesUsed past UsageLimit.
func (s *CouponService) Redeem(tx *gorm.DB, code string) error {
	res := tx.Model(&models.Coupon{}).
		Where("code = ? AND times_used < usage_limit", strings.ToUpper(strings.TrimSpace(code))).
		UpdateColumn("times_used", gorm.Expr("times_used + 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to redeem coupon: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCouponExhausted
	}
	return nil
}
