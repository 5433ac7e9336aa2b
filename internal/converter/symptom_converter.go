package converter

import (
	"findmyclinic/internal/delivery/dto"
	"findmyclinic/internal/service"
)

// SymptomAnalysisToResponse converts an analyzer result to its response DTO
func SymptomAnalysisToResponse(analysis *service.SymptomAnalysis) *dto.SymptomAnalysisResponse {
	if analysis == nil {
		return nil
	}

	return &dto.SymptomAnalysisResponse{
		Analysis:             analysis.Analysis,
		Confidence:           analysis.Confidence,
		Urgency:              analysis.Urgency,
		Recommendations:      analysis.Recommendations,
		PossibleConditions:   analysis.PossibleConditions,
		RecommendedSpecialty: analysis.RecommendedSpecialty,
		Fallback:             analysis.Fallback,
	}
}
