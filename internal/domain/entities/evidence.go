package entities

// EvidenceItem is a single search result used as grounding for verdict
// computation. It is transient: items survive only as EvidenceLinks once
// an analysis is persisted.
type EvidenceItem struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
	Source  string `json:"source"`
}

// Link converts the item to its persistable form.
func (i EvidenceItem) Link() EvidenceLink {
	return EvidenceLink{
		Title:   i.Title,
		URL:     i.URL,
		Source:  i.Source,
		Snippet: i.Snippet,
	}
}
