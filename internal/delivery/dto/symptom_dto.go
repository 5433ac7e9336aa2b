package dto

// Request DTOs

type AnalyzeSymptomsRequest struct {
	Description     string `json:"description" validate:"required,min=10,max=2000"`
	Severity        string `json:"severity" validate:"required,oneof=mild moderate severe critical"`
	Duration        string `json:"duration" validate:"omitempty,max=100"`
	AdditionalNotes string `json:"additional_notes" validate:"omitempty,max=2000"`
	ImageData       string `json:"image_data" validate:"omitempty"` // base64
	ImageMIME       string `json:"image_mime" validate:"omitempty,oneof=image/jpeg image/png image/webp"`
}

// Response DTOs

type SymptomAnalysisResponse struct {
	Analysis             string   `json:"analysis"`
	Confidence           int      `json:"confidence"`
	Urgency              string   `json:"urgency"`
	Recommendations      string   `json:"recommendations"`
	PossibleConditions   []string `json:"possible_conditions"`
	RecommendedSpecialty string   `json:"recommended_specialty"`
	Fallback             bool     `json:"fallback"`
}
