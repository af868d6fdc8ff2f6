package pricing

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/anh-khoa-nguyen/OFOProject/models"
)

var (
	ErrVoucherNotFound = errors.New("voucher not found")
	ErrBelowMinimum    = errors.New("subtotal below voucher minimum")
)

// Voucher display categories for the checkout UI.
const (
	CategoryDiscount = "discount"
	CategoryShipping = "shipping"
)

// VoucherResult is the outcome of resolving a voucher against a subtotal.
// Reason is set only when Valid is false.
type VoucherResult struct {
	Valid    bool
	Discount float64
	Reason   error
	Voucher  *models.Voucher
}

// CandidateVoucher is a voucher enriched with the discount it would yield for
// the given subtotal. A dedicated view type: the persisted entity is never
// mutated with computed values.
type CandidateVoucher struct {
	models.Voucher
	Discount float64 `json:"discount"`
	Category string  `json:"category"`
}

// VoucherDiscount computes the discount a voucher yields for a subtotal:
// percent vouchers take percent% of the subtotal capped at Max (no cap when
// Max is zero), flat vouchers take the fixed Limit.
func VoucherDiscount(v *models.Voucher, subtotal float64) float64 {
	if v.Percent > 0 {
		discount := subtotal * v.Percent / 100
		if v.Max > 0 {
			discount = math.Min(discount, v.Max)
		}
		return discount
	}
	return v.Limit
}

// VoucherCategory tags a voucher for display partitioning.
func VoucherCategory(v *models.Voucher) string {
	if v.Percent > 0 {
		return CategoryDiscount
	}
	return CategoryShipping
}

// ResolveVoucher looks up an active voucher by code for a restaurant and
// checks it against the subtotal at the given time. Invalid outcomes are
// results, not errors; the error return is reserved for storage failures.
func ResolveVoucher(db *gorm.DB, code string, restaurantID uint, subtotal float64, now time.Time) (VoucherResult, error) {
	var voucher models.Voucher
	err := db.
		Where("restaurant_id = ? AND code = ? AND active = ?", restaurantID, code, true).
		Where("start_date <= ? AND end_date >= ?", now, now).
		First(&voucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VoucherResult{Reason: ErrVoucherNotFound}, nil
		}
		return VoucherResult{}, err
	}
	return checkVoucher(&voucher, subtotal), nil
}

// ResolveVoucherByID is the checkout path: the client references the chosen
// voucher by id and the server re-validates it from scratch.
func ResolveVoucherByID(db *gorm.DB, voucherID, restaurantID uint, subtotal float64, now time.Time) (VoucherResult, error) {
	var voucher models.Voucher
	err := db.
		Where("id = ? AND restaurant_id = ? AND active = ?", voucherID, restaurantID, true).
		Where("start_date <= ? AND end_date >= ?", now, now).
		First(&voucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VoucherResult{Reason: ErrVoucherNotFound}, nil
		}
		return VoucherResult{}, err
	}
	return checkVoucher(&voucher, subtotal), nil
}

func checkVoucher(voucher *models.Voucher, subtotal float64) VoucherResult {
	if subtotal < voucher.Min {
		return VoucherResult{Reason: ErrBelowMinimum, Voucher: voucher}
	}
	return VoucherResult{
		Valid:    true,
		Discount: VoucherDiscount(voucher, subtotal),
		Voucher:  voucher,
	}
}

// ListValidVouchers returns every voucher usable for the subtotal right now,
// partitioned by display category.
func ListValidVouchers(db *gorm.DB, restaurantID uint, subtotal float64, now time.Time) (map[string][]CandidateVoucher, error) {
	var vouchers []models.Voucher
	err := db.
		Where("restaurant_id = ? AND active = ?", restaurantID, true).
		Where("start_date <= ? AND end_date >= ?", now, now).
		Where("min <= ?", subtotal).
		Order("id").
		Find(&vouchers).Error
	if err != nil {
		return nil, err
	}

	out := map[string][]CandidateVoucher{
		CategoryDiscount: {},
		CategoryShipping: {},
	}
	for _, v := range vouchers {
		category := VoucherCategory(&v)
		out[category] = append(out[category], CandidateVoucher{
			Voucher:  v,
			Discount: VoucherDiscount(&v, subtotal),
			Category: category,
		})
	}
	return out, nil
}
