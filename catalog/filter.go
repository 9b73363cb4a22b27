package catalog

import (
	"github.com/hamim5264/devengine/models"
)

const CategoryAll = "all"

// Filter selects catalog projects. A nil MaxPrice means no ceiling.
type Filter struct {
	MaxPrice *int64
	Category string
}

func (f Filter) Matches(p models.Project) bool {
	if f.MaxPrice != nil && NumericValue(p.EffectivePrice()) > *f.MaxPrice {
		return false
	}
	return f.Category == "" || f.Category == CategoryAll || string(p.Category) == f.Category
}

// Apply returns the matching projects, preserving input order.
func (f Filter) Apply(projects []models.Project) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// HomeSection groups projects carrying one of the featured tags.
type HomeSection struct {
	Tag      string           `json:"tag"`
	Title    string           `json:"title"`
	Projects []models.Project `json:"projects"`
}

var featuredTags = []struct{ id, title string }{
	{"most-popular", "Most Popular"},
	{"trending", "Trending"},
	{"new", "New Releases"},
	{"students-favourite", "Students' Favourite"},
}

// HomeSections builds the featured sections in a fixed order. Empty sections are left out.
func HomeSections(projects []models.Project) []HomeSection {
	var sections []HomeSection
	for _, ft := range featuredTags {
		var matched []models.Project
		for _, p := range projects {
			if p.HasTag(ft.id) {
				matched = append(matched, p)
			}
		}
		if len(matched) > 0 {
			sections = append(sections, HomeSection{Tag: ft.id, Title: ft.title, Projects: matched})
		}
	}
	return sections
}

// ResolveTags maps tag ids to names in order, skipping ids that no longer exist.
func ResolveTags(ids []string, tags []models.Tag) []models.Tag {
	byID := make(map[string]models.Tag, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}

	resolved := make([]models.Tag, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			resolved = append(resolved, t)
		}
	}
	return resolved
}
