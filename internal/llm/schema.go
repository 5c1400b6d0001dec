package llm

// BuildDiseaseAnalysisSchema returns the JSON-Schema (draft 2020-12 subset)
// the disease analysis completion must satisfy. Field names are a hard
// contract with the persisted document shape.
func BuildDiseaseAnalysisSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"diagnosedConditions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"causes":           map[string]any{"type": "string"},
			"earlySymptoms":    map[string]any{"type": "string"},
			"stages":           map[string]any{"type": "string"},
			"futureSymptoms":   map[string]any{"type": "string"},
			"prevention":       map[string]any{"type": "string"},
			"whatToEat":        map[string]any{"type": "string"},
			"whatToAvoid":      map[string]any{"type": "string"},
			"howToCure":        map[string]any{"type": "string"},
			"healthyLifestyle": map[string]any{"type": "string"},
		},
		"required": []string{
			"diagnosedConditions", "causes", "earlySymptoms", "stages",
			"futureSymptoms", "prevention", "whatToEat", "whatToAvoid",
			"howToCure", "healthyLifestyle",
		},
	}
}

// BuildMedicationAnalysisSchema returns the JSON-Schema the medication
// analysis completion must satisfy.
func BuildMedicationAnalysisSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"medications": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"name":              map[string]any{"type": "string"},
						"whyGiven":          map[string]any{"type": "string"},
						"benefits":          map[string]any{"type": "string"},
						"dosage":            map[string]any{"type": "string"},
						"timing":            map[string]any{"type": "string"},
						"beforeOrAfterFood": map[string]any{"type": "string"},
					},
					"required": []string{"name", "whyGiven", "benefits", "dosage", "timing", "beforeOrAfterFood"},
				},
			},
		},
		"required": []string{"medications"},
	}
}
