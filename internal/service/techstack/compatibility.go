package techstack

import (
	"fmt"

	"project-service/internal/model"
)

// CompatibilityResult is advisory: an incompatible item may still be added,
// but the stack cannot be locked while any incompatibility remains.
type CompatibilityResult struct {
	Compatible   []string `json:"compatible"`
	Incompatible []string `json:"incompatible"`
	Warnings     []string `json:"warnings"`
}

// CheckCompatibility evaluates a candidate item against the existing stack
// using the injected table. Items in the same category never conflict; a
// name absent from the table is unknown and assumed compatible, with a
// warning.
func (s *Service) CheckCompatibility(item model.TechStackItem, existing []model.TechStackItem) CompatibilityResult {
	result := CompatibilityResult{
		Compatible:   []string{},
		Incompatible: []string{},
		Warnings:     []string{},
	}

	known, hasEntry := s.table[item.Name]
	if !hasEntry {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("no compatibility data for %s; assuming compatible", item.Name))
	}

	for _, other := range existing {
		if other.ID == item.ID {
			continue
		}
		if other.Category == item.Category {
			result.Compatible = append(result.Compatible, other.Name)
			continue
		}
		if s.pairCompatible(item.Name, other.Name, known, hasEntry) {
			result.Compatible = append(result.Compatible, other.Name)
		} else {
			result.Incompatible = append(result.Incompatible, other.Name)
		}
	}
	return result
}

// pairCompatible checks both directions of the table. With no entry on
// either side the pair is unknown and treated as compatible.
func (s *Service) pairCompatible(name, otherName string, known []string, hasEntry bool) bool {
	if hasEntry {
		for _, n := range known {
			if n == otherName {
				return true
			}
		}
	}
	otherKnown, otherHasEntry := s.table[otherName]
	if otherHasEntry {
		for _, n := range otherKnown {
			if n == name {
				return true
			}
		}
	}
	if !hasEntry && !otherHasEntry {
		return true
	}
	return false
}

// stackIncompatibilities re-validates a whole stack, returning one reason
// per conflicting pair. Used by LockStack.
func (s *Service) stackIncompatibilities(items []model.TechStackItem) []string {
	reasons := []string{}
	for i, item := range items {
		for _, other := range items[i+1:] {
			if other.Category == item.Category {
				continue
			}
			known, hasEntry := s.table[item.Name]
			if !s.pairCompatible(item.Name, other.Name, known, hasEntry) {
				reasons = append(reasons,
					fmt.Sprintf("%s is incompatible with %s", item.Name, other.Name))
			}
		}
	}
	return reasons
}
