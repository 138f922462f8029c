package dto

import "rainier-guide-be/pkg/store"

type AskRequest struct {
	Question    string `json:"question" validate:"max=2000"`
	SessionId   string `json:"session_id,omitempty" validate:"omitempty,uuid"`
	VisitorName string `json:"visitor_name,omitempty" validate:"max=60"`
}

type AskResponse struct {
	SessionId         string         `json:"session_id"`
	Question          string         `json:"question"`
	EnhancedQuestion  string         `json:"enhanced_question"`
	Intent            string         `json:"intent"`
	Answer            string         `json:"answer"`
	Sources           []store.Source `json:"sources"`
	EnhancementUsed   bool           `json:"enhancement_used"`
	WeatherUsed       bool           `json:"weather_used"`
	AlertsUsed        bool           `json:"alerts_used"`
	ConversationMode  bool           `json:"conversation_mode"`
	TrailListMode     bool           `json:"trail_list_mode"`
	RetrievedPassages int            `json:"retrieved_passages"`
	VisitorName       string         `json:"visitor_name,omitempty"`
}

type SessionResponse struct {
	SessionId   string `json:"session_id"`
	VisitorName string `json:"visitor_name,omitempty"`
	LastIntent  string `json:"last_intent,omitempty"`
	Turns       int    `json:"turns"`
}
