package furniture

import "github.com/totofurniture/furnistore-backend/pkg/db/models"

// Misc attribute and modifier keys are case-sensitive. Setting an existing
// key overwrites the value and keeps its original position.

func AttributeValue(m *models.MiscFurniture, name string) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, attr := range m.Attributes {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

func SetAttribute(m *models.MiscFurniture, name, value string) {
	for i := range m.Attributes {
		if m.Attributes[i].Name == name {
			m.Attributes[i].Value = value
			return
		}
	}
	m.Attributes = append(m.Attributes, models.MiscAttribute{
		FurnitureID: m.FurnitureID,
		Name:        name,
		Value:       value,
		Position:    nextAttributePosition(m.Attributes),
	})
}

// RemoveAttribute reports whether the key existed.
func RemoveAttribute(m *models.MiscFurniture, name string) bool {
	for i := range m.Attributes {
		if m.Attributes[i].Name == name {
			m.Attributes = append(m.Attributes[:i], m.Attributes[i+1:]...)
			return true
		}
	}
	return false
}

func PriceModifier(m *models.MiscFurniture, name string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	for _, mod := range m.PriceModifiers {
		if mod.Name == name {
			return mod.Value, true
		}
	}
	return 0, false
}

func SetPriceModifier(m *models.MiscFurniture, name string, value float64) {
	for i := range m.PriceModifiers {
		if m.PriceModifiers[i].Name == name {
			m.PriceModifiers[i].Value = value
			return
		}
	}
	next := 0
	for _, mod := range m.PriceModifiers {
		if mod.Position >= next {
			next = mod.Position + 1
		}
	}
	m.PriceModifiers = append(m.PriceModifiers, models.MiscPriceModifier{
		FurnitureID: m.FurnitureID,
		Name:        name,
		Value:       value,
		Position:    next,
	})
}

func RemovePriceModifier(m *models.MiscFurniture, name string) bool {
	for i := range m.PriceModifiers {
		if m.PriceModifiers[i].Name == name {
			m.PriceModifiers = append(m.PriceModifiers[:i], m.PriceModifiers[i+1:]...)
			return true
		}
	}
	return false
}

func nextAttributePosition(attrs []models.MiscAttribute) int {
	next := 0
	for _, attr := range attrs {
		if attr.Position >= next {
			next = attr.Position + 1
		}
	}
	return next
}
