package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hamim5264/devengine/models"
)

func sampleProjects() []models.Project {
	return []models.Project{
		{Slug: "craftybay", Price: "1,00,000 BDT", Discount: "70,000 BDT", Category: models.CategoryAndroid, Tags: []string{"most-popular", "trending"}},
		{Slug: "quizwhiz", Price: "3,000 BDT", Discount: "2,000 BDT", Category: models.CategoryAndroid, Tags: []string{"students-favourite"}},
		{Slug: "shop-web", Price: "40,000 BDT", Category: models.CategoryWeb, Tags: []string{"new"}},
		{Slug: "desk", Price: "90,000 BDT", Discount: "85,000 BDT", Category: models.CategoryDesktop},
	}
}

func slugs(ps []models.Project) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Slug)
	}
	return out
}

func TestFilterApply(t *testing.T) {
	ceiling := func(v int64) *int64 { return &v }

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"craftybay", "quizwhiz", "shop-web", "desk"}},
		{"all category", Filter{Category: CategoryAll}, []string{"craftybay", "quizwhiz", "shop-web", "desk"}},
		{"discount decides price", Filter{MaxPrice: ceiling(70000)}, []string{"craftybay", "quizwhiz", "shop-web"}},
		{"ceiling is inclusive", Filter{MaxPrice: ceiling(2000)}, []string{"quizwhiz"}},
		{"category only", Filter{Category: "android"}, []string{"craftybay", "quizwhiz"}},
		{"category and price", Filter{Category: "android", MaxPrice: ceiling(10000)}, []string{"quizwhiz"}},
		{"nothing matches", Filter{Category: "ios"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slugs(tt.filter.Apply(sampleProjects())))
		})
	}
}

func TestHomeSections(t *testing.T) {
	sections := HomeSections(sampleProjects())

	var tags []string
	for _, s := range sections {
		tags = append(tags, s.Tag)
	}
	assert.Equal(t, []string{"most-popular", "trending", "new", "students-favourite"}, tags)
	assert.Equal(t, "Students' Favourite", sections[3].Title)
	assert.Equal(t, []string{"craftybay"}, slugs(sections[0].Projects))

	assert.Empty(t, HomeSections([]models.Project{{Slug: "plain"}}))
}

func TestResolveTagsSkipsUnknownIDs(t *testing.T) {
	tags := []models.Tag{{ID: "trending", Name: "Trending"}, {ID: "new", Name: "New"}}

	got := ResolveTags([]string{"new", "deleted-tag", "trending"}, tags)

	assert.Equal(t, []models.Tag{{ID: "new", Name: "New"}, {ID: "trending", Name: "Trending"}}, got)
}
