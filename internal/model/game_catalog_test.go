package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCanonicalType(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"quick", DetectiveSimulation},
		{"simulation", DetectiveSimulation},
		{"detective", DetectiveSimulation},
		{"posh", POSHTrainingSimulation},
		{"hospital", HospitalCrisisSimulation},
		{"hospital-crisis", HospitalCrisisSimulation},
		{"misinformation", FakeNewsSimulation},
		{"powerplant", PowerplantCrisisSimulation},
		{DetectiveSimulation, DetectiveSimulation},
		// unknown keys pass through untouched
		{"SPACE_STATION_SIMULATION", "SPACE_STATION_SIMULATION"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveCanonicalType(tt.raw), "raw=%q", tt.raw)
	}
}

func TestParameterLabelsFor(t *testing.T) {
	labels := ParameterLabelsFor(DetectiveSimulation)
	assert.NotNil(t, labels)
	assert.Equal(t, "Critical Thinking", labels.Param1)
	assert.Equal(t, "Evidence Analysis", labels.Param2)
	assert.Equal(t, "Intuition", labels.Param3)

	// a raw alias is not a canonical key
	assert.Nil(t, ParameterLabelsFor("quick"))
	assert.Nil(t, ParameterLabelsFor("SPACE_STATION_SIMULATION"))
}

func TestCatalogOrder(t *testing.T) {
	order := CatalogOrder()
	assert.Len(t, order, 13)
	assert.Equal(t, DetectiveSimulation, order[0])
	assert.Equal(t, POSHAcademySimulation, order[len(order)-1])

	// every cataloged type has labels and a display name
	for _, gameType := range order {
		assert.NotNil(t, ParameterLabelsFor(gameType), gameType)
		assert.NotEqual(t, gameType, GameTypeDisplayName(gameType), gameType)
	}

	// callers get a copy, not the backing slice
	order[0] = "mutated"
	assert.Equal(t, DetectiveSimulation, CatalogOrder()[0])
}

func TestGameTypeDisplayName(t *testing.T) {
	assert.Equal(t, "Detective Simulation", GameTypeDisplayName("quick"))
	assert.Equal(t, "Hospital Crisis", GameTypeDisplayName(HospitalCrisisSimulation))
	assert.Equal(t, "SPACE_STATION_SIMULATION", GameTypeDisplayName("SPACE_STATION_SIMULATION"))
}
