package models

// DetectResult carries the outputs of the detect action table plus the
// case ID minted for this submission. The image URI points into the hosted
// service's file store and is only meaningful to it.
type DetectResult struct {
	CaseID             string `json:"case_id"`
	ImageURI           string `json:"image_uri"`
	CropType           string `json:"crop_type"`
	InitialGuess       string `json:"initial_guess"`
	ConfidenceLevel    string `json:"confidence_level"`
	ClarifyingQuestion string `json:"clarifying_question"`
}

type ClarifyRequest struct {
	CaseID string `json:"case_id"`
	Answer string `json:"answer" binding:"required"`
}

type ClarifyResult struct {
	CaseID               string `json:"case_id"`
	CleanedAnswer        string `json:"cleaned_answer"`
	AnswerInterpretation string `json:"answer_interpretation"`
	SupportsInitialGuess string `json:"supports_initial_guess"`
}

// ConcludeRequest is the compiled case: the client echoes back the detect
// and clarify outputs, so the server never has to hold per-user state.
type ConcludeRequest struct {
	CaseID               string `json:"case_id"`
	CropType             string `json:"crop_type"`
	InitialGuess         string `json:"initial_guess"`
	ConfidenceLevel      string `json:"confidence_level"`
	CleanedAnswer        string `json:"cleaned_answer"`
	AnswerInterpretation string `json:"answer_interpretation"`
	SupportsInitialGuess string `json:"supports_initial_guess"`
}

type FinalResult struct {
	CaseID         string `json:"case_id"`
	FinalDiagnosis string `json:"final_diagnosis"`
	Cause          string `json:"cause"`
	TreatmentSteps string `json:"treatment_steps"`
	PreventionTips string `json:"prevention_tips"`
}
