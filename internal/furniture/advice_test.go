package furniture

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/totofurniture/furnistore-backend/pkg/db/models"
)

func TestChairMaintenanceSchedule(t *testing.T) {
	assert.Contains(t, ChairMaintenanceSchedule(&models.Chair{HasWheels: true, IsAdjustable: true}), "3 months")
	assert.Contains(t, ChairMaintenanceSchedule(&models.Chair{ChairStyle: strPtr("Rocking")}), "6 months")
	assert.Contains(t, ChairMaintenanceSchedule(&models.Chair{ChairStyle: strPtr("dining")}), "annually")
	assert.True(t, strings.HasPrefix(ChairMaintenanceSchedule(&models.Chair{}), "General"))
}

func TestSofaCleaningProducts(t *testing.T) {
	assert.Contains(t, SofaCleaningProducts(&models.Sofa{UpholsteryType: strPtr("Leather")}), "Leather conditioner")
	assert.Contains(t, SofaCleaningProducts(&models.Sofa{UpholsteryType: strPtr("cotton blend")}), "Stain remover")
	assert.Contains(t, SofaCleaningProducts(&models.Sofa{UpholsteryType: strPtr("velvet")}), "Velvet brush")
	assert.Contains(t, SofaCleaningProducts(&models.Sofa{}), "General upholstery cleaner")
}

func TestSofaDeliveryDifficulty(t *testing.T) {
	assert.Equal(t, DeliveryDifficultyLow, SofaDeliveryDifficulty(&models.Sofa{SeatingCapacity: 3, HasRecliners: true}))
	assert.Equal(t, DeliveryDifficultyMedium, SofaDeliveryDifficulty(&models.Sofa{SeatingCapacity: 4}))
	assert.Equal(t, DeliveryDifficultyMedium, SofaDeliveryDifficulty(&models.Sofa{HasRecliners: true, IsConvertible: true}))
	assert.Equal(t, DeliveryDifficultyHigh, SofaDeliveryDifficulty(&models.Sofa{SeatingCapacity: 5, HasRecliners: true, IsConvertible: true}))
}

func TestTableAccessories(t *testing.T) {
	coffee := TableAccessories(&models.Table{Height: 45, SeatingCapacity: 0})
	assert.Contains(t, coffee, "Coasters")
	assert.Contains(t, coffee, "Wood polish")
	assert.NotContains(t, coffee, "Glass cleaner")

	dining := TableAccessories(&models.Table{Height: 76, SeatingCapacity: 6, HasGlassTop: true})
	assert.Contains(t, dining, "Glass cleaner")
	assert.Contains(t, dining, "Placemats set")
	assert.NotContains(t, dining, "Wood polish")
}

func TestTableSpaceRequirement(t *testing.T) {
	got := TableSpaceRequirement(&models.Table{Length: 160, Width: 90})
	assert.InDelta(t, 6.9, got, 1e-9)
}

func TestSuggestMiscCategory(t *testing.T) {
	assert.Equal(t, "Storage", SuggestMiscCategory(&models.MiscFurniture{Description: strPtr("Wall shelf with hooks")}))
	assert.Equal(t, "Decor", SuggestMiscCategory(&models.MiscFurniture{Description: strPtr("Hand painted VASE")}))
	assert.Equal(t, "Lighting", SuggestMiscCategory(&models.MiscFurniture{Description: strPtr("floor lamp")}))

	glass := &models.MiscFurniture{}
	SetAttribute(glass, "material", "Crystal")
	assert.Equal(t, "Glass Items", SuggestMiscCategory(glass))

	metal := &models.MiscFurniture{Description: strPtr("room divider")}
	SetAttribute(metal, "material", "wrought iron")
	assert.Equal(t, "Metal Furniture", SuggestMiscCategory(metal))

	// keys are case-sensitive
	upper := &models.MiscFurniture{}
	SetAttribute(upper, "Material", "steel")
	assert.Equal(t, "Miscellaneous", SuggestMiscCategory(upper))
}
