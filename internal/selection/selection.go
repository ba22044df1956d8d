// Package selection holds the in-memory state of the preference form: one
// brand, up to five models, up to five features, and free-text context. All
// operations are synchronous and run on the UI event loop; there is no
// concurrent mutation to guard against.
package selection

import (
	"errors"

	"autoaccel/internal/catalog"
	"autoaccel/internal/generation"
)

// MaxSelections caps models and features independently. Attempts to exceed it
// are rejected, never truncated.
const MaxSelections = 5

var (
	// ErrLimitReached signals a toggle-on at the selection limit.
	ErrLimitReached = errors.New("selection limit reached")

	// ErrIncomplete signals submit preconditions unmet: brand set, at
	// least one model, at least one feature.
	ErrIncomplete = errors.New("incomplete selection")

	// ErrUnknownCategory signals a category absent from the catalog.
	ErrUnknownCategory = errors.New("unknown brand category")

	// ErrUnknownBrand signals a brand outside the active category.
	ErrUnknownBrand = errors.New("unknown brand for category")

	// ErrUnknownModel signals a model outside the selected brand's list.
	ErrUnknownModel = errors.New("unknown model for brand")

	// ErrUnknownFeature signals a feature absent from the catalog.
	ErrUnknownFeature = errors.New("unknown feature")
)

// State is the mutable selection. The zero value is not ready; use New.
type State struct {
	brandType         string
	selectedBrand     string
	selectedModels    []string // insertion order kept for display
	selectedFeatures  []string
	additionalContext string
}

// New returns an empty selection on the default category.
func New() *State {
	return &State{brandType: catalog.DefaultCategory}
}

// BrandType returns the active catalog category.
func (s *State) BrandType() string { return s.brandType }

// Brand returns the selected brand, or "" when none is selected.
func (s *State) Brand() string { return s.selectedBrand }

// Models returns the selected models in insertion order.
func (s *State) Models() []string { return clone(s.selectedModels) }

// Features returns the selected features in insertion order.
func (s *State) Features() []string { return clone(s.selectedFeatures) }

// AdditionalContext returns the free-text context.
func (s *State) AdditionalContext() string { return s.additionalContext }

// HasModel reports whether the model is currently selected.
func (s *State) HasModel(name string) bool { return contains(s.selectedModels, name) }

// HasFeature reports whether the feature is currently selected.
func (s *State) HasFeature(name string) bool { return contains(s.selectedFeatures, name) }

// SetBrandType switches the active category, clearing the brand and the
// models. Features survive: they are independent of brand.
func (s *State) SetBrandType(category string) error {
	if !catalog.HasCategory(category) {
		return ErrUnknownCategory
	}
	s.brandType = category
	s.selectedBrand = ""
	s.selectedModels = nil
	return nil
}

// SelectBrand picks a brand from the active category and unconditionally
// clears the models, even when the new brand's model list overlaps the old
// selection. Deliberate simplification, not an optimization opportunity.
func (s *State) SelectBrand(name string) error {
	if !catalog.HasBrand(s.brandType, name) {
		return ErrUnknownBrand
	}
	s.selectedBrand = name
	s.selectedModels = nil
	return nil
}

// ToggleModel adds or removes a model. Removal is always allowed; adding at
// the limit returns ErrLimitReached with the state unchanged.
func (s *State) ToggleModel(name string) error {
	if i := index(s.selectedModels, name); i >= 0 {
		s.selectedModels = append(s.selectedModels[:i], s.selectedModels[i+1:]...)
		return nil
	}
	if !catalog.HasModel(s.selectedBrand, name) {
		return ErrUnknownModel
	}
	if len(s.selectedModels) >= MaxSelections {
		return ErrLimitReached
	}
	s.selectedModels = append(s.selectedModels, name)
	return nil
}

// ToggleFeature adds or removes a feature, symmetric to ToggleModel with an
// independent counter and limit.
func (s *State) ToggleFeature(name string) error {
	if i := index(s.selectedFeatures, name); i >= 0 {
		s.selectedFeatures = append(s.selectedFeatures[:i], s.selectedFeatures[i+1:]...)
		return nil
	}
	if !catalog.HasFeature(name) {
		return ErrUnknownFeature
	}
	if len(s.selectedFeatures) >= MaxSelections {
		return ErrLimitReached
	}
	s.selectedFeatures = append(s.selectedFeatures, name)
	return nil
}

// SetAdditionalContext replaces the free-text context. Length is
// unconstrained.
func (s *State) SetAdditionalContext(text string) {
	s.additionalContext = text
}

// Validate checks the submit preconditions.
func (s *State) Validate() error {
	if s.selectedBrand == "" || len(s.selectedModels) == 0 || len(s.selectedFeatures) == 0 {
		return ErrIncomplete
	}
	return nil
}

// Snapshot builds the immutable request payload from the current state.
// Constructed once per submit and not retained.
func (s *State) Snapshot() generation.Request {
	return generation.Request{
		Brand:             s.selectedBrand,
		Models:            clone(s.selectedModels),
		Features:          clone(s.selectedFeatures),
		AdditionalContext: s.additionalContext,
	}
}

// Reset returns the state to its initial defaults. Called after every submit
// attempt completes, whatever the outcome.
func (s *State) Reset() {
	*s = State{brandType: catalog.DefaultCategory}
}

func index(list []string, name string) int {
	for i, v := range list {
		if v == name {
			return i
		}
	}
	return -1
}

func contains(list []string, name string) bool { return index(list, name) >= 0 }

func clone(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
