package store

// Passage is a retrieved snippet of park text with its attribution.
type Passage struct {
	ID      string  `json:"id,omitempty"`
	Content string  `json:"content"`
	Source  string  `json:"source"`
	URL     string  `json:"url,omitempty"`
	Title   string  `json:"title,omitempty"`
	Score   float64 `json:"score"` // 1 - cosine distance
}

// Source is an attribution shown under an answer.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Key identifies a source for deduplication.
func (s Source) Key() string {
	return s.Name + "\x00" + s.URL
}

// SourceOf returns the attribution of a passage, falling back to the knowledge base label.
func SourceOf(p Passage) Source {
	name := p.Source
	if name == "" {
		name = p.Title
	}
	if name == "" {
		name = "Mount Rainier Knowledge Base"
	}
	return Source{Name: name, URL: p.URL}
}
