package models

// SeedParams are the last-used generation inputs, kept for the lifetime of
// the session so the input form can be pre-filled on return visits.
// QuestionCount is kept as entered, before any numeric conversion.
type SeedParams struct {
	Goal          string `json:"goal"`
	Audience      string `json:"audience"`
	Tone          string `json:"tone"`
	Language      string `json:"language"`
	QuestionCount string `json:"question_count"`
}
