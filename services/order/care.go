package order

import (
	"fmt"
	"strings"

	"plantco/models"
)

// CareInstruction summarises how to look after one ordered plant.
type CareInstruction struct {
	ProductName  string `json:"name"`
	CareLevel    string `json:"careLevel,omitempty"`
	Watering     string `json:"watering,omitempty"`
	Light        string `json:"light,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// CareInstructions builds the care summary from the plant snapshots of o.
func CareInstructions(o *models.Order) []CareInstruction {
	var out []CareInstruction
	for _, it := range o.Items {
		if it.ProductType != models.ProductTypePlant {
			continue
		}
		ci := CareInstruction{ProductName: it.ProductName}
		if pd := it.Snapshot.PlantDetails; pd != nil {
			ci.CareLevel = pd.CareLevel
			ci.Watering = pd.WateringFrequency
			ci.Light = pd.LightRequirement
			ci.Instructions = pd.CareInstructions
		}
		out = append(out, ci)
	}
	return out
}

func FormatCareInstructions(care []CareInstruction) string {
	lines := make([]string, 0, len(care))
	for _, c := range care {
		var parts []string
		if c.CareLevel != "" {
			parts = append(parts, "care: "+c.CareLevel)
		}
		if c.Watering != "" {
			parts = append(parts, "water: "+c.Watering)
		}
		if c.Light != "" {
			parts = append(parts, "light: "+c.Light)
		}
		if len(parts) == 0 {
			lines = append(lines, c.ProductName)
			continue
		}
		lines = append(lines, fmt.Sprintf("%s (%s)", c.ProductName, strings.Join(parts, ", ")))
	}
	return strings.Join(lines, "; ")
}
