package model

// Canonical simulation type keys. This is a closed, versioned vocabulary:
// adding a simulation is a code change here, not a data migration.
const (
	DetectiveSimulation            = "DETECTIVE_SIMULATION"
	POSHTrainingSimulation         = "POSH_TRAINING_SIMULATION"
	FinancialForensicSimulation    = "FINANCIAL_FORENSIC_SIMULATION"
	ForensicAuditSimulation        = "FORENSIC_AUDIT_SIMULATION"
	FoodSafetySimulation           = "FOOD_SAFETY_SIMULATION"
	FinancialNegotiationSimulation = "FINANCIAL_NEGOTIATION_SIMULATION"
	HospitalCrisisSimulation       = "HOSPITAL_CRISIS_SIMULATION"
	ChainFailSimulation            = "CHAINFAIL_SIMULATION"
	FakeNewsSimulation             = "FAKE_NEWS_SIMULATION"
	SuicideAwarenessSimulation     = "SUICIDE_AWARENESS_SIMULATION"
	NegotiationSimulation          = "NEGOTIATION_SIMULATION"
	PowerplantCrisisSimulation     = "POWERPLANT_CRISIS_SIMULATION"
	POSHAcademySimulation          = "POSH_ACADEMY_SIMULATION"
)

// ParameterLabels are the three fixed score-parameter names of a simulation.
type ParameterLabels struct {
	Param1 string `json:"param1"`
	Param2 string `json:"param2"`
	Param3 string `json:"param3"`
}

// gameTypeAliases maps raw session type keys, as each simulation frontend
// records them, to canonical catalog keys.
var gameTypeAliases = map[string]string{
	"quick":                 DetectiveSimulation,
	"simulation":            DetectiveSimulation,
	"detective":             DetectiveSimulation,
	"posh":                  POSHTrainingSimulation,
	"posh-training":         POSHTrainingSimulation,
	"financial-forensic":    FinancialForensicSimulation,
	"fraud":                 FinancialForensicSimulation,
	"forensic-audit":        ForensicAuditSimulation,
	"audit":                 ForensicAuditSimulation,
	"food-safety":           FoodSafetySimulation,
	"financial-negotiation": FinancialNegotiationSimulation,
	"hospital":              HospitalCrisisSimulation,
	"hospital-crisis":       HospitalCrisisSimulation,
	"chainfail":             ChainFailSimulation,
	"fake-news":             FakeNewsSimulation,
	"misinformation":        FakeNewsSimulation,
	"suicide-awareness":     SuicideAwarenessSimulation,
	"negotiation":           NegotiationSimulation,
	"powerplant":            PowerplantCrisisSimulation,
	"powerplant-crisis":     PowerplantCrisisSimulation,
	"posh-academy":          POSHAcademySimulation,
}

// gameTypeCatalogOrder fixes the column order of organization reports.
var gameTypeCatalogOrder = []string{
	DetectiveSimulation,
	POSHTrainingSimulation,
	FinancialForensicSimulation,
	ForensicAuditSimulation,
	FoodSafetySimulation,
	FinancialNegotiationSimulation,
	HospitalCrisisSimulation,
	ChainFailSimulation,
	FakeNewsSimulation,
	SuicideAwarenessSimulation,
	NegotiationSimulation,
	PowerplantCrisisSimulation,
	POSHAcademySimulation,
}

var gameTypeParameters = map[string]ParameterLabels{
	DetectiveSimulation:            {"Critical Thinking", "Evidence Analysis", "Intuition"},
	POSHTrainingSimulation:         {"Policy Knowledge", "Investigation Skills", "Empathy & Sensitivity"},
	FinancialForensicSimulation:    {"Analytical Reasoning", "Financial Acumen", "Attention to Detail"},
	ForensicAuditSimulation:        {"Audit Methodology", "Evidence Documentation", "Professional Skepticism"},
	FoodSafetySimulation:           {"Hazard Identification", "Regulatory Compliance", "Crisis Response"},
	FinancialNegotiationSimulation: {"Deal Structuring", "Risk Assessment", "Persuasion"},
	HospitalCrisisSimulation:       {"Clinical Judgment", "Resource Management", "Communication"},
	ChainFailSimulation:            {"Root Cause Analysis", "Systems Thinking", "Decision Making"},
	FakeNewsSimulation:             {"Source Verification", "Media Literacy", "Critical Analysis"},
	SuicideAwarenessSimulation:     {"Risk Recognition", "Supportive Communication", "Intervention Skills"},
	NegotiationSimulation:          {"Strategy & Preparation", "Active Listening", "Value Creation"},
	PowerplantCrisisSimulation:     {"Technical Diagnosis", "Safety Protocols", "Crisis Leadership"},
	POSHAcademySimulation:          {"Legal Awareness", "Case Handling", "Workplace Sensitivity"},
}

var gameTypeDisplayNames = map[string]string{
	DetectiveSimulation:            "Detective Simulation",
	POSHTrainingSimulation:         "POSH Training",
	FinancialForensicSimulation:    "Financial Forensics",
	ForensicAuditSimulation:        "Forensic Audit",
	FoodSafetySimulation:           "Food Safety Crisis",
	FinancialNegotiationSimulation: "Financial Negotiation",
	HospitalCrisisSimulation:       "Hospital Crisis",
	ChainFailSimulation:            "ChainFail",
	FakeNewsSimulation:             "Fake News Response",
	SuicideAwarenessSimulation:     "Suicide Awareness",
	NegotiationSimulation:          "Negotiation",
	PowerplantCrisisSimulation:     "Power Plant Crisis",
	POSHAcademySimulation:          "POSH Academy",
}

// ResolveCanonicalType maps a raw session type to its canonical catalog key.
// Unknown keys pass through unchanged so not-yet-cataloged simulations keep
// working end to end.
func ResolveCanonicalType(rawType string) string {
	if canonical, ok := gameTypeAliases[rawType]; ok {
		return canonical
	}
	return rawType
}

// ParameterLabelsFor returns the three parameter labels of a canonical type,
// or nil when the type is not in the catalog. Callers must treat nil as
// "omit parameter columns", not as an error.
func ParameterLabelsFor(canonicalType string) *ParameterLabels {
	if labels, ok := gameTypeParameters[canonicalType]; ok {
		return &labels
	}
	return nil
}

// GameTypeDisplayName returns the human-readable simulation name, falling
// back to the key itself for unknown types.
func GameTypeDisplayName(gameType string) string {
	canonical := ResolveCanonicalType(gameType)
	if name, ok := gameTypeDisplayNames[canonical]; ok {
		return name
	}
	return gameType
}

// CatalogOrder returns the canonical game types in their fixed report order.
func CatalogOrder() []string {
	out := make([]string, len(gameTypeCatalogOrder))
	copy(out, gameTypeCatalogOrder)
	return out
}
