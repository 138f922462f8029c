package prompt

import (
	"fmt"
	"sort"
	"strings"

	"rainier-guide-be/pkg/rag/intent"
	"rainier-guide-be/pkg/store"
)

const enhancementBase = `You are a Mount Rainier National Park information specialist. Your job is to rewrite user questions to make them more effective for searching park information.

Rewrite questions to be:
- Specific to Mount Rainier National Park
- Clear and unambiguous
- Using relevant search terms
- Focused on actionable information

Keep the user's original intent but make the question more searchable.`

var enhancementFocus = map[intent.Intent]string{
	intent.Trail:    "Focus on trail-specific terms like: difficulty, distance, elevation gain, trailhead, conditions, permits required.",
	intent.Weather:  "Focus on weather-specific terms like: current conditions, seasonal patterns, elevation effects, safety considerations.",
	intent.Permits:  "Focus on permit-specific terms like: requirements, reservations, fees, wilderness permits, climbing permits.",
	intent.Safety:   "Focus on safety-specific terms like: hazards, emergency procedures, gear requirements, risk factors.",
	intent.Gear:     "Focus on equipment-specific terms like: recommended gear, seasonal equipment, climbing gear, safety equipment.",
	intent.Climbing: "Focus on mountaineering terms like: routes, permits, technical difficulty, gear requirements, conditions.",
}

// EnhancementSystem returns the rewrite instruction for an intent.
func EnhancementSystem(i intent.Intent) string {
	if focus, ok := enhancementFocus[i]; ok {
		return enhancementBase + "\n\n" + focus
	}
	return enhancementBase
}

// EnhancementUser wraps the raw question for the rewrite call.
func EnhancementUser(question string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Original User Question: %q\n\n", question)
	sb.WriteString("Please rewrite this question to be more specific and effective for searching Mount Rainier National Park information. Focus on:\n")
	sb.WriteString("- Making the question clear and specific\n")
	sb.WriteString("- Including relevant Mount Rainier context\n")
	sb.WriteString("- Using better search terms\n")
	sb.WriteString("- Maintaining the user's intent\n\n")
	sb.WriteString("Enhanced Question:")
	return sb.String()
}

const answerBase = `You are a knowledgeable Mount Rainier National Park guide. Provide helpful, accurate information about the park based on the context provided.

IMPORTANT FORMATTING RULES:
- Use HTML formatting for your response (not markdown)
- Use <strong>text</strong> for bold headings and important terms
- Use <br/><br/> for paragraph breaks
- Use numbered lists with proper spacing: 1. <strong>Item:</strong> Description<br/><br/>
- Keep responses clear, well-structured, and easy to read
- Always use HTML tags instead of markdown formatting`

var answerFocus = map[intent.Intent]string{
	intent.Trail:    "Focus on trail details, difficulty levels, distances, and practical hiking advice.",
	intent.Weather:  "Focus on weather patterns, seasonal conditions, and safety considerations.",
	intent.Permits:  "Focus on permit requirements, fees, reservation processes, and regulations.",
	intent.Safety:   "Focus on safety guidelines, hazards, emergency procedures, and risk management.",
	intent.Gear:     "Focus on equipment recommendations, seasonal gear needs, and preparation advice.",
	intent.Climbing: "Focus on mountaineering routes, technical requirements, and climbing safety.",
}

// AnswerSystem returns the guide instruction for an intent. Intents without a focus get the base prompt.
func AnswerSystem(i intent.Intent) string {
	if focus, ok := answerFocus[i]; ok {
		return answerBase + " " + focus
	}
	return answerBase
}

// FormatContext numbers passages as "Document i: ..." blocks.
func FormatContext(passages []store.Passage) string {
	parts := make([]string, len(passages))
	for i, p := range passages {
		parts[i] = fmt.Sprintf("Document %d: %s", i+1, p.Content)
	}
	return strings.Join(parts, "\n\n")
}

// AnswerBuilder assembles the grounded user message for the answer call.
type AnswerBuilder struct {
	original  string
	enhanced  string
	context   string
	auxiliary map[string]string
}

func NewAnswerBuilder(original, enhanced, context string, auxiliary map[string]string) *AnswerBuilder {
	return &AnswerBuilder{
		original:  original,
		enhanced:  enhanced,
		context:   context,
		auxiliary: auxiliary,
	}
}

func (b *AnswerBuilder) Build() string {
	var prompt strings.Builder

	prompt.WriteString("Based on the following Mount Rainier information, please answer the user's question.\n\n")

	b.writeQuestions(&prompt)
	b.writeAuxiliary(&prompt)
	b.writeContext(&prompt)
	b.writeTemplate(&prompt)

	prompt.WriteString("ANSWER:")
	return prompt.String()
}

func (b *AnswerBuilder) writeQuestions(prompt *strings.Builder) {
	fmt.Fprintf(prompt, "ORIGINAL USER QUESTION: %q\n", b.original)
	fmt.Fprintf(prompt, "ENHANCED QUESTION: %q\n\n", b.enhanced)
}

func (b *AnswerBuilder) writeAuxiliary(prompt *strings.Builder) {
	if len(b.auxiliary) == 0 {
		return
	}

	keys := make([]string, 0, len(b.auxiliary))
	for k := range b.auxiliary {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	prompt.WriteString("LIVE CONDITIONS:\n")
	for _, k := range keys {
		fmt.Fprintf(prompt, "- %s: %s\n", k, b.auxiliary[k])
	}
	prompt.WriteString("\n")
}

func (b *AnswerBuilder) writeContext(prompt *strings.Builder) {
	prompt.WriteString("RELEVANT INFORMATION:\n")
	prompt.WriteString(b.context)
	prompt.WriteString("\n\n")
	prompt.WriteString("Please provide a helpful, accurate answer based on the information provided. ")
	prompt.WriteString("If the information doesn't fully answer the question, say so. ")
	prompt.WriteString("Always mention specific details from the context when relevant.\n\n")
}

func (b *AnswerBuilder) writeTemplate(prompt *strings.Builder) {
	prompt.WriteString("CRITICAL: Follow this EXACT formatting template:\n\n")
	prompt.WriteString("<strong>Response Title Here</strong><br/><br/>\n\n")
	prompt.WriteString("1. <strong>First Category:</strong> Brief description here<br/><br/>\n\n")
	prompt.WriteString("2. <strong>Second Category:</strong> Brief description here<br/><br/>\n\n")
	prompt.WriteString("3. <strong>Third Category:</strong> Brief description here<br/><br/>\n\n")
	prompt.WriteString("MANDATORY RULES:\n")
	prompt.WriteString("- Use HTML only (never markdown **text**)\n")
	prompt.WriteString("- Every numbered section must end with <br/><br/>\n")
	prompt.WriteString("- Never put multiple items on the same line\n")
	prompt.WriteString("- Use <strong>text</strong> for bold formatting\n")
	prompt.WriteString("- If you need to list multiple items within a section, separate them with \" - \" (dash-space)\n")
	prompt.WriteString("- Keep each numbered section on its own paragraph\n")
	prompt.WriteString("- When LIVE CONDITIONS are given, cite them as current readings\n\n")
}
