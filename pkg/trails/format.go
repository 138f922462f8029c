package trails

import (
	"fmt"
	"strings"
)

// FormatHike renders one hike as an HTML list body.
func FormatHike(h Hike) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<strong>%s</strong> (%s, %s)<br/>", h.Name, h.Difficulty, h.Length)
	sb.WriteString(h.Description + "<br/>")
	fmt.Fprintf(&sb, "🔗 <a href=\"%s\" target=\"_blank\">View on AllTrails</a><br/><br/>", h.URL)
	return sb.String()
}

// FormatList answers a list request. Questions mentioning hikes or trails get up to five hikes picked by
// difficulty or category keywords; anything else gets the category overview.
func (c *Catalog) FormatList(question string) string {
	q := strings.ToLower(question)
	if !strings.Contains(q, "hike") && !strings.Contains(q, "trail") {
		return c.formatOverview()
	}

	hikes, title := c.pickForQuestion(q)

	var sb strings.Builder
	sb.WriteString("<strong>" + title + "</strong><br/><br/>")
	for i, h := range hikes {
		if i == 5 {
			break
		}
		fmt.Fprintf(&sb, "%d. %s", i+1, FormatHike(h))
	}
	fmt.Fprintf(&sb, "📋 <strong>Browse all hikes:</strong> <a href=\"%s\" target=\"_blank\">Mount Rainier on AllTrails</a>",
		c.CategoryURL(ParkCategory))
	return sb.String()
}

func (c *Catalog) pickForQuestion(q string) ([]Hike, string) {
	const suffix = " in Mount Rainier National Park:"
	switch {
	case strings.Contains(q, "easy") || strings.Contains(q, "family"):
		return c.ByDifficulty("Easy"), "Here are some easy, family-friendly hikes" + suffix
	case strings.Contains(q, "moderate"):
		return c.ByDifficulty("Moderate"), "Here are some moderate hikes" + suffix
	case strings.Contains(q, "hard") || strings.Contains(q, "challenging"):
		return c.ByDifficulty("Hard"), "Here are some challenging hikes" + suffix
	case strings.Contains(q, "waterfall"):
		return c.ByCategory(CategoryWaterfallHikes), "Here are some waterfall hikes" + suffix
	case strings.Contains(q, "lake"):
		return c.ByCategory(CategoryAlpineLakes), "Here are some alpine lake hikes" + suffix
	case strings.Contains(q, "backpacking") || strings.Contains(q, "multi-day"):
		return c.ByCategory(CategoryBackpacking), "Here are some backpacking options" + suffix
	default:
		return c.Recommendations("", 0), "Here are some popular hikes" + suffix
	}
}

func (c *Catalog) formatOverview() string {
	var sb strings.Builder
	sb.WriteString("<strong>AllTrails Mount Rainier National Park</strong><br/><br/>")
	sb.WriteString("AllTrails is a great resource for discovering and planning hikes in Mount Rainier National Park. ")
	sb.WriteString("You can find detailed trail information, reviews, photos, and more.<br/><br/>")
	sb.WriteString("<strong>Popular Categories:</strong><br/>")
	for _, cat := range c.categories {
		fmt.Fprintf(&sb, "• <a href=\"%s\" target=\"_blank\">%s</a><br/>", cat.URL, cat.Name)
	}
	fmt.Fprintf(&sb, "<br/><strong>Browse all trails:</strong> <a href=\"%s\" target=\"_blank\">Mount Rainier National Park</a>",
		c.CategoryURL(ParkCategory))
	return sb.String()
}
