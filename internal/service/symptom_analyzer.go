package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// ErrAPIKeyInvalid is a terminal configuration error; it is never retried
// and never replaced with a fallback analysis.
var ErrAPIKeyInvalid = errors.New("symptom analyzer api key is invalid")

// Urgency levels
const (
	UrgencyRoutine   = "routine"
	UrgencyUrgent    = "urgent"
	UrgencyEmergency = "emergency"
)

const (
	DefaultSpecialty   = "General Medicine"
	fallbackConfidence = 30

	analyzerMaxRetries = 3
	analyzerBaseDelay  = 1 * time.Second
)

// SymptomRequest carries the patient-supplied symptom description.
type SymptomRequest struct {
	Description     string
	Severity        string
	Duration        string
	AdditionalNotes string
	ImageData       []byte
	ImageMIME       string
}

// SymptomAnalysis is the validated analyzer output.
type SymptomAnalysis struct {
	Analysis             string   `json:"analysis"`
	Confidence           int      `json:"confidence"`
	Urgency              string   `json:"urgency"`
	Recommendations      string   `json:"recommendations"`
	PossibleConditions   []string `json:"possibleConditions"`
	RecommendedSpecialty string   `json:"recommendedSpecialty"`
	Fallback             bool     `json:"fallback"`
}

// symptomGenerator abstracts the model call so retry and fallback paths can
// be exercised without the real API.
type symptomGenerator interface {
	Generate(ctx context.Context, prompt string, image []byte, mime string) (string, error)
}

// SymptomAnalyzerService classifies free-text symptoms into a recommended
// specialty. Retryable model errors (quota/rate limit) back off with jitter
// up to a fixed ceiling; everything else short of a bad API key degrades to
// a deterministic keyword heuristic so the user flow never fails outright.
type SymptomAnalyzerService struct {
	gen        symptomGenerator
	log        *logrus.Logger
	maxRetries int
	baseDelay  time.Duration
	sleep      func(time.Duration)
}

func NewSymptomAnalyzerService(ctx context.Context, apiKey, modelID string, log *logrus.Logger) (*SymptomAnalyzerService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return newSymptomAnalyzerWithGenerator(&geminiGenerator{client: client, modelID: modelID}, log), nil
}

func newSymptomAnalyzerWithGenerator(gen symptomGenerator, log *logrus.Logger) *SymptomAnalyzerService {
	return &SymptomAnalyzerService{
		gen:        gen,
		log:        log,
		maxRetries: analyzerMaxRetries,
		baseDelay:  analyzerBaseDelay,
		sleep:      time.Sleep,
	}
}

// Analyze runs the model with bounded retries and returns a validated
// analysis. The only error it can return is ErrAPIKeyInvalid (or context
// cancellation); every other failure yields the keyword fallback.
func (s *SymptomAnalyzerService) Analyze(ctx context.Context, req SymptomRequest) (*SymptomAnalysis, error) {
	prompt := buildSymptomPrompt(req)

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := s.gen.Generate(ctx, prompt, req.ImageData, req.ImageMIME)
		if err == nil {
			analysis, parseErr := parseAnalysisResponse(text)
			if parseErr != nil {
				s.log.Warnf("Unparseable analyzer response, using fallback: %+v", parseErr)
				return s.fallbackAnalysis(req), nil
			}
			return analysis, nil
		}

		if isAPIKeyError(err) {
			s.log.Errorf("Symptom analyzer API key rejected: %+v", err)
			return nil, ErrAPIKeyInvalid
		}

		if isRetryableAnalyzerError(err) && attempt < s.maxRetries {
			delay := s.baseDelay*time.Duration(1<<attempt) + time.Duration(rand.Int63n(int64(time.Second)))
			s.log.Warnf("Retryable analyzer error (attempt %d/%d), backing off %v: %+v", attempt+1, s.maxRetries+1, delay, err)
			s.sleep(delay)
			continue
		}

		s.log.Warnf("Symptom analyzer call failed, using fallback: %+v", err)
		return s.fallbackAnalysis(req), nil
	}

	// Retries exhausted on rate limits
	return s.fallbackAnalysis(req), nil
}

func buildSymptomPrompt(req SymptomRequest) string {
	var b strings.Builder
	b.WriteString(`You are a medical symptom analyzer. Based on the following patient information, provide a detailed analysis and recommend the most appropriate medical specialty for consultation.

Patient Symptoms:
- Description: ` + req.Description + `
- Severity: ` + req.Severity + "\n")
	if req.Duration != "" {
		b.WriteString("- Duration: " + req.Duration + "\n")
	}
	if req.AdditionalNotes != "" {
		b.WriteString("- Additional Notes: " + req.AdditionalNotes + "\n")
	}
	b.WriteString(`
Available Medical Specialties:
- General Medicine (primary care, general health issues)
- Cardiology (heart and cardiovascular diseases)
- Dermatology (skin, hair and nail disorders)
- Orthopedics (bones, joints and musculoskeletal disorders)
- Pediatrics (child healthcare)
- Gynecology (women's health and reproductive medicine)
- Ophthalmology (eye care and vision disorders)
- Dentistry (oral health)
- Psychiatry (mental health)
- Neurology (brain and nervous system disorders)
- ENT (ear, nose and throat disorders)
- Urology (urinary tract and male reproductive health)
- Emergency Medicine (acute care)

Please provide your analysis in the following JSON format ONLY. Do not include any other text:

{
  "analysis": "Detailed analysis of the symptoms and potential causes",
  "confidence": 75,
  "urgency": "routine",
  "recommendations": "Specific recommendations for the patient",
  "possibleConditions": ["Condition 1", "Condition 2", "Condition 3"],
  "recommendedSpecialty": "Dermatology"
}

IMPORTANT: This is NOT a diagnosis. Always recommend consulting a healthcare professional. Be conservative in your assessment. Choose the most appropriate specialty from the list above based on the symptoms described. Return ONLY the JSON object, no additional text or formatting.`)

	if len(req.ImageData) > 0 {
		b.WriteString("\n\nAdditionally, analyze the provided image for any visible symptoms or relevant visual information that could help identify potential skin conditions, rashes, or other visible medical issues.")
	}

	return b.String()
}

var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// parseAnalysisResponse extracts the JSON object from the model output,
// tolerating markdown code fences, and clamps every field to its contract.
func parseAnalysisResponse(text string) (*SymptomAnalysis, error) {
	jsonText := strings.TrimSpace(text)
	jsonText = strings.TrimPrefix(jsonText, "```json")
	jsonText = strings.TrimPrefix(jsonText, "```")
	jsonText = strings.TrimSuffix(jsonText, "```")

	match := jsonObjectPattern.FindString(jsonText)
	if match == "" {
		return nil, fmt.Errorf("no JSON object in analyzer response")
	}

	var raw struct {
		Analysis             string   `json:"analysis"`
		Confidence           float64  `json:"confidence"`
		Urgency              string   `json:"urgency"`
		Recommendations      string   `json:"recommendations"`
		PossibleConditions   []string `json:"possibleConditions"`
		RecommendedSpecialty string   `json:"recommendedSpecialty"`
	}
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return nil, fmt.Errorf("decode analyzer response: %w", err)
	}

	analysis := &SymptomAnalysis{
		Analysis:             raw.Analysis,
		Confidence:           clampConfidence(int(raw.Confidence)),
		Urgency:              raw.Urgency,
		Recommendations:      raw.Recommendations,
		PossibleConditions:   raw.PossibleConditions,
		RecommendedSpecialty: raw.RecommendedSpecialty,
	}

	if analysis.Analysis == "" {
		analysis.Analysis = "Unable to analyze symptoms. Please consult a healthcare professional."
	}
	if raw.Confidence == 0 {
		analysis.Confidence = 50
	}
	switch analysis.Urgency {
	case UrgencyRoutine, UrgencyUrgent, UrgencyEmergency:
	default:
		analysis.Urgency = UrgencyRoutine
	}
	if analysis.Recommendations == "" {
		analysis.Recommendations = "Please consult a healthcare professional for proper evaluation."
	}
	if analysis.PossibleConditions == nil {
		analysis.PossibleConditions = []string{}
	}
	if analysis.RecommendedSpecialty == "" {
		analysis.RecommendedSpecialty = DefaultSpecialty
	}

	return analysis, nil
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// fallbackAnalysis is the deterministic keyword heuristic used when the
// model is unavailable. Lower confidence, conservative urgency.
func (s *SymptomAnalyzerService) fallbackAnalysis(req SymptomRequest) *SymptomAnalysis {
	desc := strings.ToLower(req.Description)
	notes := strings.ToLower(req.AdditionalNotes)

	specialty := DefaultSpecialty
	conditions := []string{}
	urgency := UrgencyRoutine

	if req.Severity == "severe" || req.Severity == "critical" {
		urgency = UrgencyUrgent
	}

	emergencyKeywords := []string{"chest pain", "difficulty breathing", "severe bleeding", "unconscious", "stroke", "heart attack"}
	for _, kw := range emergencyKeywords {
		if strings.Contains(desc, kw) || strings.Contains(notes, kw) {
			urgency = UrgencyEmergency
			specialty = "Emergency Medicine"
			conditions = []string{"Potential emergency condition"}
			break
		}
	}

	if specialty == DefaultSpecialty {
		switch {
		case containsAny(desc, "skin", "rash", "itch"):
			specialty = "Dermatology"
			conditions = []string{"Skin condition", "Allergic reaction", "Dermatitis"}
		case containsAny(desc, "headache", "migraine"):
			specialty = "Neurology"
			conditions = []string{"Tension headache", "Migraine", "Cluster headache"}
		case containsAny(desc, "stomach", "nausea", "vomiting"):
			specialty = "Gastroenterology"
			conditions = []string{"Gastritis", "Food poisoning", "Gastroenteritis"}
		case containsAny(desc, "joint", "bone") || (strings.Contains(desc, "pain") && containsAny(desc, "knee", "back")):
			specialty = "Orthopedics"
			conditions = []string{"Arthritis", "Sprain", "Fracture"}
		case containsAny(desc, "eye", "vision"):
			specialty = "Ophthalmology"
			conditions = []string{"Eye infection", "Vision problem", "Conjunctivitis"}
		case containsAny(desc, "ear", "throat", "nose"):
			specialty = "ENT"
			conditions = []string{"Ear infection", "Sore throat", "Sinusitis"}
		case containsAny(desc, "mental", "anxiety", "depression"):
			specialty = "Psychiatry"
			conditions = []string{"Anxiety disorder", "Depression", "Stress-related condition"}
		}
	}

	return &SymptomAnalysis{
		Analysis: fmt.Sprintf(
			"Based on your symptoms (%s), this appears to be a %s condition that may require attention from a %s specialist. This is an automated assessment and not a medical diagnosis.",
			req.Description, req.Severity, specialty),
		Confidence:           fallbackConfidence,
		Urgency:              urgency,
		Recommendations:      "Please consult a healthcare professional for proper evaluation. If this is an emergency, seek immediate medical attention. In the meantime, monitor your symptoms and note any changes.",
		PossibleConditions:   conditions,
		RecommendedSpecialty: specialty,
		Fallback:             true,
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func isRetryableAnalyzerError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "429")
}

func isAPIKeyError(err error) bool {
	msg := strings.ToUpper(err.Error())
	return strings.Contains(msg, "API_KEY") || strings.Contains(msg, "INVALID_API_KEY")
}

// geminiGenerator is the production generator backed by the Gemini API.
type geminiGenerator struct {
	client  *genai.Client
	modelID string
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string, image []byte, mime string) (string, error) {
	model := g.client.GenerativeModel(g.modelID)

	parts := []genai.Part{genai.Text(prompt)}
	if len(image) > 0 {
		parts = append(parts, genai.Blob{MIMEType: mime, Data: image})
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("gemini returned empty content")
	}

	var out strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	return out.String(), nil
}
