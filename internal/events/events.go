package events

import (
	"time"
)

// EventType identifies a domain event topic.
type EventType string

const (
	EventQuestionnaireGenerated EventType = "questionnaire.generated"
	EventDraftSubmitted         EventType = "draft.submitted"
)

// Topics lists every topic a consumer may subscribe to.
var Topics = []EventType{EventQuestionnaireGenerated, EventDraftSubmitted}

// Envelope is the wire shape shared by all domain events.
type Envelope struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source"`
	Data      interface{} `json:"data"`
}

// QuestionnaireGeneratedEvent is published each time a generation call
// adopts a new draft.
type QuestionnaireGeneratedEvent struct {
	Session       string `json:"session"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
	UsedFallback  bool   `json:"used_fallback"`
}

// DraftSubmittedEvent is published on every submit intent, accepted or not.
type DraftSubmittedEvent struct {
	Session        string `json:"session"`
	Title          string `json:"title"`
	ViolationCount int    `json:"violation_count"`
}
