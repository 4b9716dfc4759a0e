package furniture

import (
	"strings"

	"github.com/totofurniture/furnistore-backend/pkg/db/models"
)

type DeliveryDifficulty string

const (
	DeliveryDifficultyLow    DeliveryDifficulty = "low"
	DeliveryDifficultyMedium DeliveryDifficulty = "medium"
	DeliveryDifficultyHigh   DeliveryDifficulty = "high"
)

// tableClearanceCM is the walking space kept free on each side of a table.
const tableClearanceCM = 70

// ChairMaintenanceSchedule suggests a service interval for the chair.
func ChairMaintenanceSchedule(c *models.Chair) string {
	switch {
	case c.HasWheels && c.IsAdjustable:
		return "Office chair: check wheels and height mechanism every 3 months"
	case containsFold(c.ChairStyle, "rocking"):
		return "Rocking chair: check joints and rockers every 6 months"
	case containsFold(c.ChairStyle, "dining"):
		return "Dining chair: tighten joints and clean upholstery annually"
	default:
		return "General chair: inspect joints and finish annually"
	}
}

// SofaCleaningProducts lists care products suited to the upholstery.
func SofaCleaningProducts(s *models.Sofa) []string {
	upholstery := ""
	if s.UpholsteryType != nil {
		upholstery = strings.ToLower(*s.UpholsteryType)
	}
	switch {
	case strings.Contains(upholstery, "leather"):
		return []string{"Leather cleaner", "Leather conditioner", "Soft microfiber cloth"}
	case strings.Contains(upholstery, "fabric"), strings.Contains(upholstery, "cotton"):
		return []string{"Fabric upholstery shampoo", "Stain remover", "Upholstery vacuum attachment"}
	case strings.Contains(upholstery, "microfiber"):
		return []string{"Rubbing alcohol spray", "Soft bristle brush", "Microfiber cleaning cloth"}
	case strings.Contains(upholstery, "velvet"):
		return []string{"Velvet brush", "Steam cleaner", "Gentle fabric cleaner"}
	default:
		return []string{"General upholstery cleaner", "Vacuum cleaner", "Soft cloth"}
	}
}

// SofaDeliveryDifficulty scores how hard the sofa is to move.
func SofaDeliveryDifficulty(s *models.Sofa) DeliveryDifficulty {
	points := 0
	if s.SeatingCapacity >= 4 {
		points += 2
	}
	if s.HasRecliners {
		points++
	}
	if s.IsConvertible {
		points++
	}
	switch {
	case points >= 4:
		return DeliveryDifficultyHigh
	case points >= 2:
		return DeliveryDifficultyMedium
	default:
		return DeliveryDifficultyLow
	}
}

func TableAccessories(t *models.Table) []string {
	var out []string
	if t.HasGlassTop {
		out = append(out, "Glass cleaner", "Table corner protectors")
	}
	if t.SeatingCapacity >= 4 {
		out = append(out, "Table runner", "Placemats set")
	}
	if t.Height > 0 && t.Height < 50 {
		out = append(out, "Coasters", "Decorative tray")
	}
	if !t.HasGlassTop {
		out = append(out, "Wood polish", "Table cloth")
	}
	return out
}

// TableSpaceRequirement returns the floor area in square metres needed for
// the table plus clearance on every side.
func TableSpaceRequirement(t *models.Table) float64 {
	length := t.Length + 2*tableClearanceCM
	width := t.Width + 2*tableClearanceCM
	return length * width / 10000
}

var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"Storage", []string{"shelf", "cabinet", "storage", "drawer"}},
	{"Decor", []string{"decor", "decorative", "ornament", "vase"}},
	{"Lighting", []string{"lamp", "light", "chandelier", "sconce"}},
}

// SuggestMiscCategory guesses a category from the description and the
// "material" custom attribute.
func SuggestMiscCategory(m *models.MiscFurniture) string {
	if m.Description != nil {
		desc := strings.ToLower(*m.Description)
		for _, group := range categoryKeywords {
			for _, word := range group.words {
				if strings.Contains(desc, word) {
					return group.category
				}
			}
		}
	}
	if material, ok := AttributeValue(m, "material"); ok {
		material = strings.ToLower(material)
		switch {
		case strings.Contains(material, "glass"), strings.Contains(material, "crystal"):
			return "Glass Items"
		case strings.Contains(material, "metal"), strings.Contains(material, "iron"), strings.Contains(material, "steel"):
			return "Metal Furniture"
		}
	}
	return "Miscellaneous"
}
