package analyzer

import (
	"context"
	"fmt"

	"github.com/cropcheckai/cropcheck/internal/config"
	"github.com/cropcheckai/cropcheck/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnalysisClient is the slice of the hosted-service client the analyzer
// needs. *jamai.Client satisfies it.
type AnalysisClient interface {
	UploadFile(ctx context.Context, data []byte, filename string) (string, error)
	AddActionRow(ctx context.Context, tableID string, data map[string]string) (map[string]string, error)
}

// Service maps the three diagnosis steps onto the project's action tables.
// It holds no per-case state: each call carries everything the step needs.
type Service struct {
	client AnalysisClient
	cfg    config.JamAIConfig
	logger *zap.Logger
}

func NewService(client AnalysisClient, cfg config.JamAIConfig, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// UploadImage stores the crop photo in the hosted file store and returns
// its URI. Callers validate the bytes before handing them over.
func (s *Service) UploadImage(ctx context.Context, data []byte, filename string) (string, error) {
	return s.client.UploadFile(ctx, data, filename)
}

// Detect uploads the image and runs the detect table in one step.
func (s *Service) Detect(ctx context.Context, image []byte, filename, description string) (*models.DetectResult, error) {
	imageURI, err := s.UploadImage(ctx, image, filename)
	if err != nil {
		return nil, fmt.Errorf("image upload failed: %w", err)
	}

	return s.DetectUploaded(ctx, uuid.New().String(), imageURI, description)
}

// DetectUploaded runs the detect table against an already-stored image.
// The async worker uses this after the handler has done the upload.
func (s *Service) DetectUploaded(ctx context.Context, caseID, imageURI, description string) (*models.DetectResult, error) {
	out, err := s.client.AddActionRow(ctx, s.cfg.DetectTable, map[string]string{
		"user_image": imageURI,
		"user_desc":  description,
	})
	if err != nil {
		return nil, fmt.Errorf("detect step failed: %w", err)
	}

	s.logger.Info("Detect step completed",
		zap.String("case_id", caseID),
		zap.String("crop_type", out["crop_type"]))

	return &models.DetectResult{
		CaseID:             caseID,
		ImageURI:           imageURI,
		CropType:           out["crop_type"],
		InitialGuess:       out["initial_guess"],
		ConfidenceLevel:    out["confidence_level"],
		ClarifyingQuestion: out["clarifying_question"],
	}, nil
}

// Clarify runs the user's answer through the clarification table.
func (s *Service) Clarify(ctx context.Context, req *models.ClarifyRequest) (*models.ClarifyResult, error) {
	out, err := s.client.AddActionRow(ctx, s.cfg.ClarifyTable, map[string]string{
		"user_answer": req.Answer,
	})
	if err != nil {
		return nil, fmt.Errorf("clarify step failed: %w", err)
	}

	s.logger.Info("Clarify step completed", zap.String("case_id", req.CaseID))

	return &models.ClarifyResult{
		CaseID:               req.CaseID,
		CleanedAnswer:        out["cleaned_answer"],
		AnswerInterpretation: out["answer_interpretation"],
		SupportsInitialGuess: out["supports_initial_guess"],
	}, nil
}

// Conclude compiles the case context from the earlier steps and runs the
// final conclusion table.
func (s *Service) Conclude(ctx context.Context, req *models.ConcludeRequest) (*models.FinalResult, error) {
	out, err := s.client.AddActionRow(ctx, s.cfg.ConcludeTable, map[string]string{
		"case_context": buildCaseContext(req),
	})
	if err != nil {
		return nil, fmt.Errorf("conclude step failed: %w", err)
	}

	s.logger.Info("Conclude step completed", zap.String("case_id", req.CaseID))

	return &models.FinalResult{
		CaseID:         req.CaseID,
		FinalDiagnosis: out["final_diagnosis"],
		Cause:          out["cause"],
		TreatmentSteps: out["treatment_steps"],
		PreventionTips: out["prevention_tips"],
	}, nil
}

// buildCaseContext lays out the compiled case the way the conclusion
// table's prompt expects it.
func buildCaseContext(req *models.ConcludeRequest) string {
	return fmt.Sprintf(`
Crop type: %s
Initial disease guess: %s
Confidence level: %s

Cleaned user clarification: %s
Interpretation of answer: %s
Does user answer support initial guess?: %s
`,
		req.CropType,
		req.InitialGuess,
		req.ConfidenceLevel,
		req.CleanedAnswer,
		req.AnswerInterpretation,
		req.SupportsInitialGuess,
	)
}
