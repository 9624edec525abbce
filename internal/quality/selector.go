// Package quality picks one stream variant from a preference tier.
package quality

import (
	"fmt"
	"strings"

	"ytd/internal/model"
)

// Selector chooses variants according to Tier.
type Selector struct {
	Tier model.QualityTier

	// OnFallback, if set, is called once when the requested label was
	// unavailable and the next-lower one was used.
	OnFallback func(requested, chosen string)
}

// New returns a Selector over tier, or the default tier when tier is empty.
func New(tier model.QualityTier) *Selector {
	if len(tier) == 0 {
		tier = model.DefaultTier
	}
	return &Selector{Tier: tier}
}

// Select returns the first variant labelled Tier[index]. When none exists it
// tries Tier[index+1] once. No further fallback is attempted.
func (s *Selector) Select(variants []model.StreamVariant, index int) (model.StreamVariant, error) {
	requested := s.Tier.Label(index)
	if requested == "" {
		return model.StreamVariant{}, fmt.Errorf("%w: quality %d is not in %v", model.ErrInvalidSelection, index+1, []string(s.Tier))
	}
	if v, ok := find(variants, requested); ok {
		return v, nil
	}

	next, ok := s.Tier.Next(index)
	if !ok {
		return model.StreamVariant{}, &model.NoMatchingVariantError{Requested: requested}
	}
	fallback := s.Tier.Label(next)
	v, ok := find(variants, fallback)
	if !ok {
		return model.StreamVariant{}, &model.NoMatchingVariantError{Requested: requested, Fallback: fallback}
	}
	if s.OnFallback != nil {
		s.OnFallback(requested, fallback)
	}
	return v, nil
}

func find(variants []model.StreamVariant, label string) (model.StreamVariant, bool) {
	for _, v := range variants {
		if v.Quality == label {
			return v, true
		}
	}
	return model.StreamVariant{}, false
}

// ParseTier reads a comma separated list such as "720p, 360p". Empty input
// yields the default tier.
func ParseTier(s string) (model.QualityTier, error) {
	var tier model.QualityTier
	for _, part := range strings.Split(s, ",") {
		label := strings.ToLower(strings.TrimSpace(part))
		if label == "" {
			continue
		}
		if !strings.HasSuffix(label, "p") || len(label) < 2 {
			return nil, fmt.Errorf("%w: quality %q must look like 720p", model.ErrInvalidConfig, part)
		}
		if tier.IndexOf(label) >= 0 {
			return nil, fmt.Errorf("%w: quality %q listed twice", model.ErrInvalidConfig, label)
		}
		tier = append(tier, label)
	}
	if len(tier) == 0 {
		return append(model.QualityTier(nil), model.DefaultTier...), nil
	}
	return tier, nil
}
