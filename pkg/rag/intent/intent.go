package intent

import "context"

// Intent is the coarse category of a visitor question.
type Intent string

const (
	Trail            Intent = "trail"
	Weather          Intent = "weather"
	Permits          Intent = "permits"
	Safety           Intent = "safety"
	Gear             Intent = "gear"
	Climbing         Intent = "climbing"
	Greeting         Intent = "greeting"
	SystemInfo       Intent = "system_info"
	Courtesy         Intent = "courtesy"
	OffTopic         Intent = "off_topic"
	Empty            Intent = "empty"
	UserIntroduction Intent = "user_introduction"
	ListRequest      Intent = "list_request"
	General          Intent = "general"
)

// All lists every intent.
var All = []Intent{
	Trail, Weather, Permits, Safety, Gear, Climbing,
	Greeting, SystemInfo, Courtesy, OffTopic, Empty, UserIntroduction,
	ListRequest, General,
}

// IsConversational reports whether the intent is answered from templates, without retrieval.
func (i Intent) IsConversational() bool {
	switch i {
	case Greeting, SystemInfo, Courtesy, OffTopic, Empty, UserIntroduction:
		return true
	}
	return false
}

// IsTopical reports whether the intent has a dedicated prompt focus.
func (i Intent) IsTopical() bool {
	switch i {
	case Trail, Weather, Permits, Safety, Gear, Climbing:
		return true
	}
	return false
}

// Parse maps a label to an intent. "alltrails" is the legacy label for list requests.
func Parse(label string) (Intent, bool) {
	if label == "alltrails" {
		return ListRequest, true
	}
	for _, i := range All {
		if string(i) == label {
			return i, true
		}
	}
	return "", false
}

// Classification is the result of classifying one question.
type Classification struct {
	Intent Intent `json:"intent"`
	// Name is the visitor name given in a self-introduction.
	Name string `json:"name,omitempty"`
}

// Classifier never fails; implementations degrade to a best-effort result.
type Classifier interface {
	Classify(ctx context.Context, question string) Classification
}
