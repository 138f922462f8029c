package conversation

import "rainier-guide-be/pkg/rag/intent"

const (
	greetingBody = "I'm your Mount Rainier guide. I can help you with trails, climbing routes, permits, " +
		"gear recommendations, weather conditions, and safety information.<br/><br/>" +
		"What would you like to know?"

	systemInfoReply = "I'm your Mount Rainier AI guide with knowledge about the park's 260+ miles of trails, " +
		"climbing routes to the 14,411-foot summit, permits, safety guidelines, and gear recommendations. " +
		"How can I help you plan your Mount Rainier adventure? 🗻"

	thanksReply  = "You're welcome! 😊 Stay safe and enjoy your Mount Rainier adventure! 🏔️"
	goodbyeReply = "Safe travels! 👋 Remember to check conditions and carry the 10 essentials. Enjoy Mount Rainier! 🏔️"

	offTopicReply = "I specialize in Mount Rainier National Park information! 🏔️ " +
		"I can help with trails, climbing routes, permits, weather, safety, and gear. " +
		"What would you like to know about Mount Rainier? 🗻"

	emptyReply = "I'm here to help with your Mount Rainier questions! 🏔️ " +
		"Ask me about trails, climbing, permits, weather, safety, or gear. What interests you? 🗻"

	introductionBody = "I'm your Mount Rainier guide. Ask me about trails, climbing routes, permits, " +
		"weather, safety, or gear. What would you like to know? 🏔️"

	fallbackReply = "Hello! I'm your Mount Rainier guide. 🏔️ " +
		"What would you like to know about hiking, climbing, permits, weather, or safety? 🗻"
)

// Respond returns the templated reply for a non-informational turn. name is the visitor's name when known.
// The result is never empty and depends only on the arguments.
func Respond(question string, i intent.Intent, name string) string {
	switch i {
	case intent.Greeting:
		if name != "" {
			return "<strong>Hello, " + name + "! 🏔️</strong><br/><br/>" + greetingBody
		}
		return "<strong>Hello! 🏔️</strong><br/><br/>" + greetingBody

	case intent.SystemInfo:
		return systemInfoReply

	case intent.Courtesy:
		if intent.IsThanks(question) {
			return thanksReply
		}
		return goodbyeReply

	case intent.OffTopic:
		return offTopicReply

	case intent.Empty:
		return emptyReply

	case intent.UserIntroduction:
		if name == "" {
			return "Nice to meet you! " + introductionBody
		}
		return "Nice to meet you, " + name + "! " + introductionBody

	default:
		return fallbackReply
	}
}
