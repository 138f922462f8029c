package store

import "time"

// Session is the per-visitor state kept between turns.
type Session struct {
	ID          string    `json:"id"`
	VisitorName string    `json:"visitor_name,omitempty"`
	LastIntent  string    `json:"last_intent,omitempty"`
	LastQuery   string    `json:"last_query,omitempty"`
	Turns       int       `json:"turns"`
	UpdatedAt   time.Time `json:"updated_at"`
}
