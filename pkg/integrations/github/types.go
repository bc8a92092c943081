package github

// Label represents a label attached to a pull request.
type Label struct {
	Name string `json:"name"`
}

// PullRequest represents a GitHub pull request, reduced to the fields
// the release gate inspects.
type PullRequest struct {
	Number   int     `json:"number"`
	Title    string  `json:"title"`
	State    string  `json:"state"`
	MergedAt *string `json:"merged_at"`
	Labels   []Label `json:"labels"`
}

// HasLabel reports whether the pull request carries the named label.
func (p PullRequest) HasLabel(name string) bool {
	for _, l := range p.Labels {
		if l.Name == name {
			return true
		}
	}
	return false
}

// LabelNames returns the pull request's label names in API order.
func (p PullRequest) LabelNames() []string {
	names := make([]string, 0, len(p.Labels))
	for _, l := range p.Labels {
		names = append(names, l.Name)
	}
	return names
}
