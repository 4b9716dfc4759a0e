package suppliers

import (
	"strings"

	"gorm.io/gorm"

	"github.com/totofurniture/furnistore-backend/pkg/db/models"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
)

// Filter narrows supplier lookups. WoodType, SpecialtyContains and
// ServiceCity match against JSON list columns and are applied after the query.
type Filter struct {
	CompanyContains       string
	OwnerContains         string
	ContactContains       string
	Email                 string
	Phone                 string
	NTNNumber             string
	CNICNumber            string
	City                  string
	AreaContains          string
	Type                  *enums.SupplierType
	Status                *enums.SupplierStatus
	PreferredPayment      *enums.PaymentMethod
	MaxMinimumOrderAmount *float64
	MaxLeadTimeDays       *int
	MinBulkDiscountRate   *float64
	ProvidesCustomWork    *bool
	ProvidesInstallation  *bool

	WoodType          *enums.WoodType
	SpecialtyContains string
	ServiceCity       string
}

func Manufacturers() Filter {
	t := enums.SupplierTypeManufacturer
	return Filter{Type: &t}
}

func ActiveSuppliers() Filter {
	s := enums.SupplierStatusActive
	return Filter{Status: &s}
}

func likeFold(value string) string {
	return "%" + strings.ToLower(strings.TrimSpace(value)) + "%"
}

func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	if f.CompanyContains != "" {
		q = q.Where("LOWER(company_name) LIKE ?", likeFold(f.CompanyContains))
	}
	if f.OwnerContains != "" {
		q = q.Where("LOWER(owner_name) LIKE ?", likeFold(f.OwnerContains))
	}
	if f.ContactContains != "" {
		q = q.Where("LOWER(contact_person) LIKE ?", likeFold(f.ContactContains))
	}
	if f.Email != "" {
		q = q.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(f.Email)))
	}
	if f.Phone != "" {
		q = q.Where("primary_phone = ? OR secondary_phone = ?", f.Phone, f.Phone)
	}
	if f.NTNNumber != "" {
		q = q.Where("ntn_number = ?", f.NTNNumber)
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
	if f.Type != nil {
		q = q.Where("supplier_type = ?", *f.Type)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.PreferredPayment != nil {
		q = q.Where("preferred_payment_method = ?", *f.PreferredPayment)
	}
	if f.MaxMinimumOrderAmount != nil {
		q = q.Where("minimum_order_amount <= ?", *f.MaxMinimumOrderAmount)
	}
	if f.MaxLeadTimeDays != nil {
		q = q.Where("standard_lead_time_days <= ?", *f.MaxLeadTimeDays)
	}
	if f.MinBulkDiscountRate != nil {
		q = q.Where("bulk_order_discount_rate >= ?", *f.MinBulkDiscountRate)
	}
	if f.ProvidesCustomWork != nil {
		q = q.Where("provides_custom_work = ?", *f.ProvidesCustomWork)
	}
	if f.ProvidesInstallation != nil {
		q = q.Where("provides_installation = ?", *f.ProvidesInstallation)
	}
	return q
}

func (f Filter) matchesLists(s *models.Supplier) bool {
	if f.WoodType != nil && !containsWood(s.WoodTypesOffered, *f.WoodType) {
		return false
	}
	if f.SpecialtyContains != "" {
		needle := strings.ToLower(strings.TrimSpace(f.SpecialtyContains))
		found := false
		for _, sp := range s.Specialties {
			if strings.Contains(strings.ToLower(sp), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.ServiceCity != "" && !CanServiceLocation(s, f.ServiceCity) {
		return false
	}
	return true
}

func containsWood(list []enums.WoodType, wood enums.WoodType) bool {
	for _, w := range list {
		if w == wood {
			return true
		}
	}
	return false
}
