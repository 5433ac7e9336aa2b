package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string, _ []byte, _ string) (string, error) {
	i := g.calls
	g.calls++
	g.prompts = append(g.prompts, prompt)
	var err error
	if i < len(g.errs) {
		err = g.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(g.responses) {
		return g.responses[i], nil
	}
	return "", errors.New("stub exhausted")
}

func newAnalyzerUnderTest(gen *stubGenerator) *SymptomAnalyzerService {
	analyzer := newSymptomAnalyzerWithGenerator(gen, testLogger())
	analyzer.sleep = func(time.Duration) {}
	return analyzer
}

const validAnalysisJSON = `{
  "analysis": "Symptoms are consistent with contact dermatitis.",
  "confidence": 80,
  "urgency": "routine",
  "recommendations": "Avoid the irritant and consult a dermatologist.",
  "possibleConditions": ["Contact dermatitis", "Eczema"],
  "recommendedSpecialty": "Dermatology"
}`

func TestAnalyze_ParsesModelResponse(t *testing.T) {
	gen := &stubGenerator{responses: []string{validAnalysisJSON}}
	analyzer := newAnalyzerUnderTest(gen)

	result, err := analyzer.Analyze(context.Background(), SymptomRequest{Description: "itchy red rash on forearm", Severity: "mild"})
	require.NoError(t, err)
	assert.Equal(t, "Dermatology", result.RecommendedSpecialty)
	assert.Equal(t, 80, result.Confidence)
	assert.Equal(t, UrgencyRoutine, result.Urgency)
	assert.False(t, result.Fallback)
	assert.Equal(t, 1, gen.calls)
}

func TestAnalyze_ToleratesMarkdownFences(t *testing.T) {
	gen := &stubGenerator{responses: []string{"```json\n" + validAnalysisJSON + "\n```"}}
	analyzer := newAnalyzerUnderTest(gen)

	result, err := analyzer.Analyze(context.Background(), SymptomRequest{Description: "itchy red rash on forearm", Severity: "mild"})
	require.NoError(t, err)
	assert.Equal(t, "Dermatology", result.RecommendedSpecialty)
	assert.False(t, result.Fallback)
}

func TestAnalyze_UnparseableResponseFallsBack(t *testing.T) {
	gen := &stubGenerator{responses: []string{"I am unable to answer that."}}
	analyzer := newAnalyzerUnderTest(gen)

	result, err := analyzer.Analyze(context.Background(), SymptomRequest{Description: "persistent headache behind the eyes", Severity: "moderate"})
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.Equal(t, "Neurology", result.RecommendedSpecialty)
	assert.Equal(t, fallbackConfidence, result.Confidence)
}

func TestAnalyze_RetriesRateLimitThenSucceeds(t *testing.T) {
	gen := &stubGenerator{
		errs:      []error{errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED"), nil},
		responses: []string{"", validAnalysisJSON},
	}
	analyzer := newAnalyzerUnderTest(gen)

	result, err := analyzer.Analyze(context.Background(), SymptomRequest{Description: "itchy red rash on forearm", Severity: "mild"})
	require.NoError(t, err)
	assert.False(t, result.Fallback)
	assert.Equal(t, 2, gen.calls)
}

func TestAnalyze_RetriesExhaustedFallsBack(t *testing.T) {
	rateLimit := errors.New("quota exceeded for quota metric")
	gen := &stubGenerator{errs: []error{rateLimit, rateLimit, rateLimit, rateLimit}}
	analyzer := newAnalyzerUnderTest(gen)

	result, err := analyzer.Analyze(context.Background(), SymptomRequest{Description: "stomach cramps and nausea since dinner", Severity: "moderate"})
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.Equal(t, "Gastroenterology", result.RecommendedSpecialty)
	assert.Equal(t, 4, gen.calls, "initial attempt plus three retries")
}

func TestAnalyze_InvalidAPIKeyIsTerminal(t *testing.T) {
	gen := &stubGenerator{errs: []error{errors.New("googleapi: Error 400: API key not valid, reason: API_KEY_INVALID")}}
	analyzer := newAnalyzerUnderTest(gen)

	_, err := analyzer.Analyze(context.Background(), SymptomRequest{Description: "itchy red rash on forearm", Severity: "mild"})
	assert.ErrorIs(t, err, ErrAPIKeyInvalid)
	assert.Equal(t, 1, gen.calls, "bad credentials are never retried")
}

func TestAnalyze_NonRetryableErrorFallsBackImmediately(t *testing.T) {
	gen := &stubGenerator{errs: []error{errors.New("connection refused")}}
	analyzer := newAnalyzerUnderTest(gen)

	result, err := analyzer.Analyze(context.Background(), SymptomRequest{Description: "sore throat and blocked nose", Severity: "mild"})
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.Equal(t, "ENT", result.RecommendedSpecialty)
	assert.Equal(t, 1, gen.calls)
}

func TestAnalyze_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analyzer := newAnalyzerUnderTest(&stubGenerator{responses: []string{validAnalysisJSON}})
	_, err := analyzer.Analyze(ctx, SymptomRequest{Description: "itchy red rash on forearm", Severity: "mild"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseAnalysisResponse_Sanitization(t *testing.T) {
	tests := []struct {
		name           string
		json           string
		wantConfidence int
		wantUrgency    string
		wantSpecialty  string
	}{
		{
			"confidence above range is clamped",
			`{"analysis":"a","confidence":250,"urgency":"urgent","recommendations":"r","possibleConditions":[],"recommendedSpecialty":"Cardiology"}`,
			100, UrgencyUrgent, "Cardiology",
		},
		{
			"negative confidence is clamped",
			`{"analysis":"a","confidence":-5,"urgency":"routine","recommendations":"r","possibleConditions":[],"recommendedSpecialty":"Cardiology"}`,
			0, UrgencyRoutine, "Cardiology",
		},
		{
			"missing confidence defaults to fifty",
			`{"analysis":"a","urgency":"routine","recommendations":"r","possibleConditions":[],"recommendedSpecialty":"Cardiology"}`,
			50, UrgencyRoutine, "Cardiology",
		},
		{
			"unknown urgency becomes routine",
			`{"analysis":"a","confidence":60,"urgency":"catastrophic","recommendations":"r","possibleConditions":[],"recommendedSpecialty":"Cardiology"}`,
			60, UrgencyRoutine, "Cardiology",
		},
		{
			"missing specialty defaults to general medicine",
			`{"analysis":"a","confidence":60,"urgency":"routine","recommendations":"r","possibleConditions":[]}`,
			60, UrgencyRoutine, DefaultSpecialty,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseAnalysisResponse(tt.json)
			require.NoError(t, err)
			assert.Equal(t, tt.wantConfidence, result.Confidence)
			assert.Equal(t, tt.wantUrgency, result.Urgency)
			assert.Equal(t, tt.wantSpecialty, result.RecommendedSpecialty)
		})
	}
}

func TestFallbackAnalysis_Keywords(t *testing.T) {
	analyzer := newAnalyzerUnderTest(&stubGenerator{})

	tests := []struct {
		description   string
		severity      string
		wantSpecialty string
		wantUrgency   string
	}{
		{"crushing chest pain radiating to the left arm", "severe", "Emergency Medicine", UrgencyEmergency},
		{"itchy rash spreading on both arms", "mild", "Dermatology", UrgencyRoutine},
		{"throbbing migraine with light sensitivity", "moderate", "Neurology", UrgencyRoutine},
		{"knee pain after a fall", "moderate", "Orthopedics", UrgencyRoutine},
		{"blurry vision in one eye", "moderate", "Ophthalmology", UrgencyRoutine},
		{"feeling anxiety and cannot sleep", "mild", "Psychiatry", UrgencyRoutine},
		{"general tiredness", "mild", DefaultSpecialty, UrgencyRoutine},
		{"general tiredness", "critical", DefaultSpecialty, UrgencyUrgent},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			result := analyzer.fallbackAnalysis(SymptomRequest{Description: tt.description, Severity: tt.severity})
			assert.True(t, result.Fallback)
			assert.Equal(t, tt.wantSpecialty, result.RecommendedSpecialty)
			assert.Equal(t, tt.wantUrgency, result.Urgency)
			assert.Equal(t, fallbackConfidence, result.Confidence)
		})
	}
}

func TestBuildSymptomPrompt_MentionsImageOnlyWhenPresent(t *testing.T) {
	withImage := buildSymptomPrompt(SymptomRequest{Description: "rash", Severity: "mild", ImageData: []byte{1, 2, 3}})
	withoutImage := buildSymptomPrompt(SymptomRequest{Description: "rash", Severity: "mild"})

	assert.Contains(t, withImage, "analyze the provided image")
	assert.NotContains(t, withoutImage, "analyze the provided image")
}
