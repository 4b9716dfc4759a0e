package customers

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

// Filter narrows customer lookups. Zero values are ignored.
type Filter struct {
	FirstNameContains string
	LastNameContains  string
	FullNameContains  string
	Phone             string
	CNICNumber        string
	City              string
	AreaContains      string
	Status            *enums.CustomerStatus
	Type              *enums.CustomerType
	PreferredPayment  *enums.PaymentMethod
	MarketingConsent  *bool
	ReferralSource    string
	RegisteredFrom    *time.Time
	RegisteredTo      *time.Time
	NoOrders          bool
	MinOrders         *int
}

func VIPs() Filter {
	t := enums.CustomerTypeVIP
	return Filter{Type: &t}
}

func CityAndType(city string, customerType enums.CustomerType) Filter {
	return Filter{City: city, Type: &customerType}
}

const orderCountSQL = "(SELECT COUNT(*) FROM orders WHERE orders.customer_id = customers.id)"

func likeFold(value string) string {
	return "%" + strings.ToLower(strings.TrimSpace(value)) + "%"
}

func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	if f.FirstNameContains != "" {
		q = q.Where("LOWER(first_name) LIKE ?", likeFold(f.FirstNameContains))
	}
	if f.LastNameContains != "" {
		q = q.Where("LOWER(last_name) LIKE ?", likeFold(f.LastNameContains))
	}
	if f.FullNameContains != "" {
		q = q.Where("LOWER(first_name || ' ' || last_name) LIKE ?", likeFold(f.FullNameContains))
	}
	if f.Phone != "" {
		q = q.Where("primary_phone = ? OR secondary_phone = ?", f.Phone, f.Phone)
	}
	if f.CNICNumber != "" {
		q = q.Where("cnic_number = ?", f.CNICNumber)
	}
	if f.City != "" {
		q = q.Where("LOWER(city) = ?", strings.ToLower(strings.TrimSpace(f.City)))
	}
	if f.AreaContains != "" {
		q = q.Where("LOWER(area) LIKE ?", likeFold(f.AreaContains))
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Type != nil {
		q = q.Where("customer_type = ?", *f.Type)
	}
	if f.PreferredPayment != nil {
		q = q.Where("preferred_payment_method = ?", *f.PreferredPayment)
	}
	if f.MarketingConsent != nil {
		q = q.Where("marketing_consent = ?", *f.MarketingConsent)
	}
	if f.ReferralSource != "" {
		q = q.Where("LOWER(referral_source) = ?", strings.ToLower(strings.TrimSpace(f.ReferralSource)))
	}
	if f.RegisteredFrom != nil {
		q = q.Where("registration_date >= ?", f.RegisteredFrom.UTC())
	}
	if f.RegisteredTo != nil {
		q = q.Where("registration_date <= ?", f.RegisteredTo.UTC())
	}
	if f.NoOrders {
		q = q.Where("NOT EXISTS (SELECT 1 FROM orders WHERE orders.customer_id = customers.id)")
	}
	if f.MinOrders != nil {
		q = q.Where(orderCountSQL+" >= ?", *f.MinOrders)
	}
	return q
}
