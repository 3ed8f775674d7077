package techstack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"project-service/internal/model"
)

var testTable = map[string][]string{
	"React":      {"Node.js", "Express"},
	"Vue.js":     {"Node.js", "Laravel"},
	"Django":     {"PostgreSQL", "MySQL"},
	"PostgreSQL": {"Node.js", "Django", "Laravel"},
}

func newCompatService(t *testing.T) *Service {
	t.Helper()
	return NewService(testTable, &fakeStore{}, zap.NewNop())
}

func item(id int64, name string, category model.TechCategory) model.TechStackItem {
	return model.TechStackItem{ID: id, ProjectID: 1, Name: name, Category: category}
}

func TestCheckCompatibilityListedPair(t *testing.T) {
	s := newCompatService(t)

	result := s.CheckCompatibility(
		item(0, "React", model.TechFramework),
		[]model.TechStackItem{item(1, "Node.js", model.TechLanguage)},
	)

	assert.Equal(t, []string{"Node.js"}, result.Compatible)
	assert.Empty(t, result.Incompatible)
	assert.Empty(t, result.Warnings)
}

func TestCheckCompatibilityIsSymmetric(t *testing.T) {
	s := newCompatService(t)

	// The table lists PostgreSQL -> Django, not the reverse; Django still
	// sees PostgreSQL as compatible.
	result := s.CheckCompatibility(
		item(0, "Django", model.TechFramework),
		[]model.TechStackItem{item(1, "PostgreSQL", model.TechDatabase)},
	)
	assert.Equal(t, []string{"PostgreSQL"}, result.Compatible)

	result = s.CheckCompatibility(
		item(0, "PostgreSQL", model.TechDatabase),
		[]model.TechStackItem{item(1, "Django", model.TechFramework)},
	)
	assert.Equal(t, []string{"Django"}, result.Compatible)
}

func TestCheckCompatibilitySameCategoryNeverConflicts(t *testing.T) {
	s := newCompatService(t)

	// React and Vue.js are not listed as compatible with each other, but a
	// shared category means coexistence, not conflict.
	result := s.CheckCompatibility(
		item(0, "React", model.TechFramework),
		[]model.TechStackItem{item(1, "Vue.js", model.TechFramework)},
	)

	assert.Equal(t, []string{"Vue.js"}, result.Compatible)
	assert.Empty(t, result.Incompatible)
}

func TestCheckCompatibilityUnknownTechnologyWarns(t *testing.T) {
	s := newCompatService(t)

	result := s.CheckCompatibility(
		item(0, "Elixir", model.TechLanguage),
		[]model.TechStackItem{item(1, "Kafka", model.TechOther)},
	)

	// Neither side has table data: unknown, assumed compatible, warned.
	assert.Equal(t, []string{"Kafka"}, result.Compatible)
	assert.Empty(t, result.Incompatible)
	assert.Equal(t, []string{"no compatibility data for Elixir; assuming compatible"}, result.Warnings)
}

func TestCheckCompatibilityDetectsConflict(t *testing.T) {
	s := newCompatService(t)

	// Django has table data and PostgreSQL/MySQL are its only listed
	// partners, so React conflicts with it.
	result := s.CheckCompatibility(
		item(0, "React", model.TechFramework),
		[]model.TechStackItem{item(1, "Django", model.TechOther)},
	)

	assert.Empty(t, result.Compatible)
	assert.Equal(t, []string{"Django"}, result.Incompatible)
}

func TestStackIncompatibilitiesPairwise(t *testing.T) {
	s := newCompatService(t)

	reasons := s.stackIncompatibilities([]model.TechStackItem{
		item(1, "React", model.TechFramework),
		item(2, "Django", model.TechOther),
		item(3, "PostgreSQL", model.TechDatabase),
	})

	// React conflicts with both; Django/PostgreSQL is a listed pair.
	assert.Equal(t, []string{
		"React is incompatible with Django",
		"React is incompatible with PostgreSQL",
	}, reasons)
}
