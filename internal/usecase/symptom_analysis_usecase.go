package usecase

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/sirupsen/logrus"

	"findmyclinic/internal/converter"
	"findmyclinic/internal/delivery/dto"
	"findmyclinic/internal/service"
)

var ErrInvalidImageData = errors.New("image data is not valid base64")

// SymptomAnalyzer is the analyzer surface the usecase depends on.
type SymptomAnalyzer interface {
	Analyze(ctx context.Context, req service.SymptomRequest) (*service.SymptomAnalysis, error)
}

type SymptomAnalysisUsecase interface {
	Analyze(ctx context.Context, req *dto.AnalyzeSymptomsRequest) (*dto.SymptomAnalysisResponse, error)
}

type symptomAnalysisUsecase struct {
	log      *logrus.Logger
	analyzer SymptomAnalyzer
}

func NewSymptomAnalysisUsecase(log *logrus.Logger, analyzer SymptomAnalyzer) SymptomAnalysisUsecase {
	return &symptomAnalysisUsecase{
		log:      log,
		analyzer: analyzer,
	}
}

func (u *symptomAnalysisUsecase) Analyze(ctx context.Context, req *dto.AnalyzeSymptomsRequest) (*dto.SymptomAnalysisResponse, error) {
	var imageData []byte
	if req.ImageData != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.ImageData)
		if err != nil {
			return nil, ErrInvalidImageData
		}
		imageData = decoded
	}

	analysis, err := u.analyzer.Analyze(ctx, service.SymptomRequest{
		Description:     req.Description,
		Severity:        req.Severity,
		Duration:        req.Duration,
		AdditionalNotes: req.AdditionalNotes,
		ImageData:       imageData,
		ImageMIME:       req.ImageMIME,
	})
	if err != nil {
		u.log.Warnf("Symptom analysis failed: %+v", err)
		return nil, err
	}

	return converter.SymptomAnalysisToResponse(analysis), nil
}
