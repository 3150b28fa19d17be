package handlers

import (
	"math"
	"testing"
	"time"

	"github.com/gampahin-husmak/community-api/internal/models"
)

func TestCO2Offset(t *testing.T) {
	now := time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)

	young := models.Tree{PlantedDate: now.AddDate(-1, 0, 0)}
	got := co2Offset([]models.Tree{young}, now)
	want := 365.0 * 0.0137
	if math.Abs(got-want) > 0.1 {
		t.Errorf("young tree: expected ~%.2f kg, got %.2f", want, got)
	}

	// A tree older than two years absorbs at the mature rate past the
	// young phase.
	mature := models.Tree{PlantedDate: now.AddDate(-3, 0, 0)}
	got = co2Offset([]models.Tree{mature}, now)
	want = 2*365.25*0.0137 + 365.0*0.0602
	if math.Abs(got-want) > 0.2 {
		t.Errorf("mature tree: expected ~%.2f kg, got %.2f", want, got)
	}

	future := models.Tree{PlantedDate: now.AddDate(0, 1, 0)}
	if got := co2Offset([]models.Tree{future}, now); got != 0 {
		t.Errorf("future planting must not contribute, got %.2f", got)
	}
}

func TestSeasonalAlert(t *testing.T) {
	dry := time.Date(2026, time.February, 15, 14, 0, 0, 0, time.UTC)
	alert := seasonalAlert(dry)
	if alert == nil || alert.Type != "watering" || alert.Urgency != "high" {
		t.Errorf("expected high-urgency watering alert in February, got %+v", alert)
	}

	morning := time.Date(2026, time.May, 15, 8, 0, 0, 0, time.UTC)
	alert = seasonalAlert(morning)
	if alert == nil || alert.Type != "maintenance" {
		t.Errorf("expected maintenance alert on a wet-season morning, got %+v", alert)
	}

	evening := time.Date(2026, time.May, 15, 20, 0, 0, 0, time.UTC)
	if alert := seasonalAlert(evening); alert != nil {
		t.Errorf("expected no alert on a wet-season evening, got %+v", alert)
	}
}
