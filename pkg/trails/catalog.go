package trails

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	CategoryDayHikes       = "Day Hikes"
	CategoryWaterfallHikes = "Waterfall Hikes"
	CategoryAlpineLakes    = "Alpine Lakes"
	CategoryBackpacking    = "Backpacking"
	CategoryFamilyFriendly = "Family Friendly"

	ParkCategory = "Mount Rainier National Park"
)

// Hike is one trail record.
type Hike struct {
	Name          string `json:"name" yaml:"name"`
	URL           string `json:"url" yaml:"url"`
	Difficulty    string `json:"difficulty" yaml:"difficulty"`
	Length        string `json:"length" yaml:"length"`
	ElevationGain string `json:"elevation_gain" yaml:"elevation_gain"`
	Type          string `json:"type" yaml:"type"`
	Description   string `json:"description" yaml:"description"`
	Category      string `json:"category" yaml:"category"`
}

// LengthMiles parses "5.5 miles" into 5.5. Unparseable lengths are 0.
func (h Hike) LengthMiles() float64 {
	fields := strings.Fields(h.Length)
	if len(fields) == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(fields[0], ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// CategoryLink is a browse page for a group of hikes.
type CategoryLink struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Catalog is the read-only trail dataset.
type Catalog struct {
	hikes      []Hike
	categories []CategoryLink
}

type catalogFile struct {
	Hikes      []Hike         `yaml:"hikes"`
	Categories []CategoryLink `yaml:"categories"`
}

// Default returns the built-in dataset.
func Default() *Catalog {
	return &Catalog{hikes: defaultHikes, categories: defaultCategories}
}

// Load reads a YAML override. An empty path returns the built-in dataset; sections missing from the file
// keep their built-in values.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trails file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse trails file: %w", err)
	}

	c := Default()
	if len(file.Hikes) > 0 {
		for i, h := range file.Hikes {
			if h.Name == "" || h.URL == "" {
				return nil, fmt.Errorf("trails file: hike %d needs a name and url", i+1)
			}
		}
		c.hikes = file.Hikes
	}
	if len(file.Categories) > 0 {
		c.categories = file.Categories
	}
	return c, nil
}

func (c *Catalog) All() []Hike {
	out := make([]Hike, len(c.hikes))
	copy(out, c.hikes)
	return out
}

func (c *Catalog) Categories() []CategoryLink {
	out := make([]CategoryLink, len(c.categories))
	copy(out, c.categories)
	return out
}

// CategoryURL returns the browse link of a category, falling back to the park page.
func (c *Catalog) CategoryURL(name string) string {
	for _, cat := range c.categories {
		if strings.EqualFold(cat.Name, name) {
			return cat.URL
		}
	}
	for _, cat := range c.categories {
		if cat.Name == ParkCategory {
			return cat.URL
		}
	}
	return ""
}

func (c *Catalog) ByCategory(category string) []Hike {
	var out []Hike
	for _, h := range c.hikes {
		if strings.EqualFold(h.Category, category) {
			out = append(out, h)
		}
	}
	return out
}

func (c *Catalog) ByDifficulty(difficulty string) []Hike {
	var out []Hike
	for _, h := range c.hikes {
		if strings.EqualFold(h.Difficulty, difficulty) {
			out = append(out, h)
		}
	}
	return out
}

// Search matches query against name, description and category.
func (c *Catalog) Search(query string) []Hike {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []Hike
	for _, h := range c.hikes {
		if strings.Contains(strings.ToLower(h.Name), q) ||
			strings.Contains(strings.ToLower(h.Description), q) ||
			strings.Contains(strings.ToLower(h.Category), q) {
			out = append(out, h)
		}
	}
	return out
}

// Find looks a hike up by exact name, ignoring case.
func (c *Catalog) Find(name string) (Hike, bool) {
	for _, h := range c.hikes {
		if strings.EqualFold(h.Name, name) {
			return h, true
		}
	}
	return Hike{}, false
}

// Recommendations filters by difficulty and max length (zero values disable a filter) and keeps five.
func (c *Catalog) Recommendations(difficulty string, maxMiles float64) []Hike {
	var out []Hike
	for _, h := range c.hikes {
		if difficulty != "" && !strings.EqualFold(h.Difficulty, difficulty) {
			continue
		}
		if maxMiles > 0 && h.LengthMiles() > maxMiles {
			continue
		}
		out = append(out, h)
		if len(out) == 5 {
			break
		}
	}
	return out
}

// BestMatch returns the hike whose distinctive name appears in question.
// The longest matching name wins so "Northern Loop" beats "Loop".
func (c *Catalog) BestMatch(question string) (Hike, bool) {
	q := strings.ToLower(question)

	type candidate struct {
		hike Hike
		core string
	}
	var matches []candidate
	for _, h := range c.hikes {
		core := coreName(h.Name)
		if core != "" && strings.Contains(q, core) {
			matches = append(matches, candidate{hike: h, core: core})
		}
	}
	if len(matches) == 0 {
		return Hike{}, false
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return len(matches[i].core) > len(matches[j].core)
	})
	return matches[0].hike, true
}

// coreName strips generic suffixes: "Skyline Trail Loop" -> "skyline".
func coreName(name string) string {
	n := strings.ToLower(name)
	for _, suffix := range []string{" trail loop", " trail", " loop"} {
		if strings.HasSuffix(n, suffix) {
			n = strings.TrimSuffix(n, suffix)
			break
		}
	}
	return strings.TrimSpace(n)
}
