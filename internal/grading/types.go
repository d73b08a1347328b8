package grading

// Auto-flag thresholds. These are fixed for the life of the process.
const (
	// ConfidenceThreshold flags records whose model confidence is below it.
	ConfidenceThreshold = 0.6

	// PercentErrorThreshold flags records whose percent error exceeds it.
	PercentErrorThreshold = 25.0

	// AbsErrorFactor flags records whose absolute error exceeds
	// max_points * AbsErrorFactor.
	AbsErrorFactor = 0.3
)

// Default values injected by the loader when optional fields are absent.
const (
	DefaultConfidence = 1.0
	DefaultFlags      = false
)

// Field names of the tabular input. They are part of the input contract
// and must match exactly.
const (
	FieldStudentID  = "student_id"
	FieldQuestionID = "question_id"
	FieldTAScore    = "ta_score"
	FieldLLMScore   = "llm_score"
	FieldMaxPoints  = "max_points"
	FieldConfidence = "confidence"
	FieldFlags      = "flags"
)

// RequiredFields lists the fields every input must carry, in canonical order.
var RequiredFields = []string{
	FieldStudentID,
	FieldQuestionID,
	FieldTAScore,
	FieldLLMScore,
	FieldMaxPoints,
}

// OptionalFields lists the fields that receive defaults when absent.
var OptionalFields = []string{
	FieldConfidence,
	FieldFlags,
}

// GradingRecord is one graded item: a student's answer to a question,
// scored by a TA and by a model.
type GradingRecord struct {
	StudentID  string  `json:"student_id"`
	QuestionID string  `json:"question_id"`
	TAScore    float64 `json:"ta_score"`
	LLMScore   float64 `json:"llm_score"`
	MaxPoints  float64 `json:"max_points"`
	Confidence float64 `json:"confidence"`

	// Flags is a manual review marker. It is carried through for schema
	// compatibility and is not consumed by any computed field.
	Flags bool `json:"flags"`
}

// DerivedRecord is a GradingRecord plus the fields computed from its scores.
type DerivedRecord struct {
	GradingRecord

	Error         float64 `json:"error"`
	AbsError      float64 `json:"abs_error"`
	PercentError  float64 `json:"percent_error"`
	NormalizedTA  float64 `json:"normalized_ta"`
	NormalizedLLM float64 `json:"normalized_llm"`
	AutoFlag      bool    `json:"auto_flag"`
}

// FlagReason names one condition of the auto-flag policy.
type FlagReason string

const (
	ReasonLowConfidence FlagReason = "low-confidence"
	ReasonPercentError  FlagReason = "percent-error"
	ReasonAbsError      FlagReason = "abs-error"
)
