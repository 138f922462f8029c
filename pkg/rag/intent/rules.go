package intent

import (
	"context"
	"strings"
	"unicode"
)

// Rule maps a keyword set to an intent. Keywords are whole-word phrases; a trailing "*" on a word makes it
// a prefix match ("thank*" matches "thanks" and "thankful").
type Rule struct {
	Intent   Intent
	Keywords []string
}

// DefaultRules is evaluated top to bottom; the first rule with a matching keyword wins.
var DefaultRules = []Rule{
	{Greeting, []string{
		"hello", "hi", "hey", "hiya", "howdy", "greetings", "aloha",
		"good morning", "good afternoon", "good evening",
	}},
	{SystemInfo, []string{
		"who are you", "what are you", "what can you do", "what do you do", "how do you work",
		"are you a bot", "are you an ai", "are you human", "are you real", "tell me about yourself",
		"what is your name", "what's your name",
	}},
	{Courtesy, append(append([]string{}, thanksPhrases...), farewellPhrases...)},
	{OffTopic, []string{
		"capital of", "stock market", "stock price*", "bitcoin", "crypto*", "recipe*", "movie*",
		"football", "basketball", "baseball", "election*", "president of", "celebrit*", "homework",
		"math problem", "write code", "javascript", "horoscope", "lottery",
	}},
	{UserIntroduction, introductionPhrases},
	{ListRequest, []string{
		"show me hikes", "show me trails", "show me some hikes", "show me some trails",
		"list of hikes", "list of trails", "list hikes", "list trails", "list all trails",
		"best hikes", "best trails", "top hikes", "top trails", "popular hikes", "popular trails",
		"recommend hikes", "recommend trails", "recommend a hike", "recommend some hikes", "recommend some trails",
		"hike recommendations", "trail recommendations", "suggest hikes", "suggest trails", "suggest a hike",
		"good hikes", "easy hikes", "family hikes", "waterfall hikes", "alltrails",
	}},
	{Trail, []string{
		"trail*", "hike", "hikes", "hiking", "hiker*", "trailhead*", "walk", "walks", "loop",
		"wonderland", "skyline", "switchback*", "elevation gain", "how long", "distance",
	}},
	{Weather, []string{
		"weather", "forecast*", "temperature*", "rain", "raining", "rainy", "snow", "snowing", "snowfall",
		"wind", "windy", "storm*", "sunny", "cloud*", "cold", "hot", "degrees", "climate", "fog*",
	}},
	{Permits, []string{
		"permit*", "reservation*", "reserve", "fee", "fees", "entrance", "registration", "register",
		"timed entry", "park pass", "annual pass", "day pass", "ticket*", "america the beautiful",
	}},
	{Safety, []string{
		"safe", "safety", "danger*", "emergency", "rescue*", "accident*", "risk*", "hazard*", "avalanche*",
		"bear", "bears", "cougar*", "lost", "injur*", "crevasse*", "lahar*", "first aid", "altitude sickness",
		"hypotherm*", "alert*", "closure*", "closed",
	}},
	{Gear, []string{
		"gear", "equipment", "boots", "backpack", "pack", "packing", "clothing", "clothes", "jacket*", "bring",
		"wear", "crampon*", "ice axe", "microspikes", "trekking poles", "ten essentials", "10 essentials",
	}},
	{Climbing, []string{
		"climb*", "summit*", "mountaineer*", "glacier*", "ascent", "disappointment cleaver", "camp muir",
		"rope team", "guided climb*", "emmons", "liberty ridge", "the top",
	}},
}

var introductionPhrases = []string{"my name is", "my name's", "call me", "i am called", "i'm called"}

var (
	thanksPhrases   = []string{"thank*", "thx", "appreciate it", "much appreciated"}
	farewellPhrases = []string{"bye", "goodbye", "good bye", "see you", "see ya", "farewell", "take care", "good night"}
)

var thanksRule = compile(Rule{Intent: Courtesy, Keywords: thanksPhrases})

// IsThanks reports whether a courtesy turn thanks the guide rather than says goodbye.
func IsThanks(question string) bool {
	return thanksRule.matches(tokenize(question))
}

// RuleClassifier is the deterministic keyword classifier. It makes no external calls.
type RuleClassifier struct {
	rules    []compiledRule
	intros   [][]string
	fallback Intent
}

type compiledRule struct {
	intent  Intent
	phrases [][]string
}

// NewRuleClassifier compiles rules; nil uses DefaultRules.
func NewRuleClassifier(rules []Rule) *RuleClassifier {
	if rules == nil {
		rules = DefaultRules
	}
	c := &RuleClassifier{fallback: General}
	for _, r := range rules {
		c.rules = append(c.rules, compile(r))
	}
	for _, p := range introductionPhrases {
		c.intros = append(c.intros, strings.Fields(p))
	}
	return c
}

func (c *RuleClassifier) Classify(_ context.Context, question string) Classification {
	return c.classify(question)
}

func (c *RuleClassifier) classify(question string) Classification {
	words := tokenize(question)
	if len(words) == 0 {
		return Classification{Intent: Empty}
	}

	result := Classification{Intent: c.fallback}
	for _, r := range c.rules {
		if r.matches(words) {
			result.Intent = r.intent
			break
		}
	}

	// A greeting may carry an introduction ("hi, my name is Ana"); keep the name for the reply.
	if result.Intent == UserIntroduction || result.Intent == Greeting {
		result.Name = c.extractName(question)
	}
	return result
}

func compile(r Rule) compiledRule {
	cr := compiledRule{intent: r.Intent}
	for _, kw := range r.Keywords {
		cr.phrases = append(cr.phrases, strings.Fields(strings.ToLower(kw)))
	}
	return cr
}

func (r compiledRule) matches(words []string) bool {
	for _, phrase := range r.phrases {
		if containsPhrase(words, phrase) {
			return true
		}
	}
	return false
}

// extractName returns the word after an introduction phrase, capitalized.
func (c *RuleClassifier) extractName(question string) string {
	words := tokenize(question)
	for _, phrase := range c.intros {
		for i := 0; i+len(phrase) < len(words); i++ {
			if !phraseAt(words, phrase, i) {
				continue
			}
			return NormalizeName(words[i+len(phrase)])
		}
	}
	return ""
}

// NormalizeName keeps the first word, trims punctuation and capitalizes it. Non-alphabetic names are dropped.
func NormalizeName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	name = strings.TrimFunc(fields[0], func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if name == "" {
		return ""
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && r != '-' && r != '\'' {
			return ""
		}
	}
	runes := []rune(strings.ToLower(name))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// tokenize lowercases s and splits it into words of letters, digits and inner apostrophes.
func tokenize(s string) []string {
	s = strings.ToLower(strings.ReplaceAll(s, "’", "'"))
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	words := fields[:0]
	for _, f := range fields {
		if w := strings.Trim(f, "'"); w != "" {
			words = append(words, w)
		}
	}
	return words
}

func containsPhrase(words, phrase []string) bool {
	for i := 0; i+len(phrase) <= len(words); i++ {
		if phraseAt(words, phrase, i) {
			return true
		}
	}
	return false
}

func phraseAt(words, phrase []string, at int) bool {
	if len(phrase) == 0 {
		return false
	}
	for j, p := range phrase {
		if !wordMatches(words[at+j], p) {
			return false
		}
	}
	return true
}

func wordMatches(word, pattern string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(word, strings.TrimSuffix(pattern, "*"))
	}
	return word == pattern
}

// Matches reports whether any keyword of the rule for i occurs in question.
func (c *RuleClassifier) Matches(i Intent, question string) bool {
	words := tokenize(question)
	for _, r := range c.rules {
		if r.intent == i && r.matches(words) {
			return true
		}
	}
	return false
}
