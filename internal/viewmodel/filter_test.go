package viewmodel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
)

func catalog() []models.Product {
	return []models.Product{
		{ID: "1", Category: models.CategoryMinimal},
		{ID: "2", Category: models.CategoryModern},
		{ID: "3", Category: models.CategoryMinimal},
		{ID: "4", Category: "vintage"},
	}
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestProject_AllIsIdentity(t *testing.T) {
	items := catalog()
	assert.Equal(t, items, Project(items, FilterAll))
}

func TestProject_KeepsMatchingInOrder(t *testing.T) {
	items := catalog()

	assert.Equal(t, []string{"1", "3"}, ids(Project(items, models.CategoryMinimal)))
	assert.Equal(t, []string{"2"}, ids(Project(items, models.CategoryModern)))
	assert.Equal(t, []string{"4"}, ids(Project(items, "vintage")))
	assert.Empty(t, Project(items, models.CategoryNatural))

	// the source slice is untouched
	assert.Equal(t, catalog(), items)
}

func TestProject_EveryKeyPartitionsTheCollection(t *testing.T) {
	items := catalog()
	total := 0
	for _, key := range []FilterKey{models.CategoryMinimal, models.CategoryModern, models.CategoryNatural, "vintage"} {
		for _, p := range Project(items, key) {
			assert.Equal(t, string(key), p.Category)
			total++
		}
	}
	assert.Equal(t, len(items), total)
}

func TestParseFilterKey(t *testing.T) {
	assert.Equal(t, FilterAll, ParseFilterKey(""))
	assert.Equal(t, FilterAll, ParseFilterKey("  "))
	assert.Equal(t, FilterKey("minimal"), ParseFilterKey(" Minimal "))
}

func TestWhere_Approved(t *testing.T) {
	items := []models.Testimonial{
		{ID: "t1", IsApproved: false},
		{ID: "t2", IsApproved: true},
	}
	approved := Where(items, models.Testimonial.Approved)
	assert.Len(t, approved, 1)
	assert.Equal(t, "t2", approved[0].ID)
}

func TestFilteredView_RecomputesOnFilterChange(t *testing.T) {
	view := NewFilteredView(staticLoader(catalog(), nil), "")
	view.Load(context.Background())

	assert.Equal(t, FilterAll, view.Filter())
	assert.Len(t, view.Visible(), 4)

	view.SetFilter(models.CategoryMinimal)
	assert.Equal(t, []string{"1", "3"}, ids(view.Visible()))

	view.SetFilter(FilterAll)
	assert.Len(t, view.Visible(), 4)
}

func TestFilteredView_EmptyKeyShowsAll(t *testing.T) {
	view := NewFilteredView(staticLoader(catalog(), nil), models.CategoryMinimal)
	view.Load(context.Background())
	assert.Len(t, view.Visible(), 2)

	view.SetFilter("")

	assert.Equal(t, FilterAll, view.Filter())
	assert.Len(t, view.Visible(), 4)
}
