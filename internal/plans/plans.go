// Package plans describes the subscription tiers shown on the pricing screen.
package plans

import (
	"fmt"
	"strings"
)

// Tier identifies a subscription plan.
type Tier string

const (
	TierFree   Tier = "free"
	TierPayPer Tier = "payper"
	TierFamily Tier = "family"
	TierSchool Tier = "school"
)

// StarterCredits is granted when a learner without credits switches to
// pay-per-use.
const StarterCredits = 10

// ParseTier converts a tier ID to a Tier.
func ParseTier(s string) (Tier, error) {
	switch t := Tier(strings.ToLower(strings.TrimSpace(s))); t {
	case TierFree, TierPayPer, TierFamily, TierSchool:
		return t, nil
	default:
		return "", fmt.Errorf("unknown plan %q (want free, payper, family or school)", s)
	}
}

// Metered reports whether questions on this tier consume credits.
func (t Tier) Metered() bool {
	return t == TierPayPer
}

// DisplayName returns the plan name shown to users.
func (t Tier) DisplayName() string {
	if p, ok := Lookup(t); ok {
		return p.Name
	}
	if t == TierFree {
		return "Free"
	}
	return string(t)
}

// Plan is a purchasable tier.
type Plan struct {
	Tier        Tier
	Name        string
	Price       string
	Period      string
	Description string
	Features    []string
	Popular     bool
}

var catalog = []Plan{
	{
		Tier:        TierPayPer,
		Name:        "Pay-per-Use",
		Price:       "KES 5-10",
		Period:      "per question",
		Description: "Perfect for occasional homework help",
		Features: []string{
			"Pay only for what you use",
			"No monthly commitment",
			"Instant access to AI tutor",
			"All subjects covered",
			"Voice and image support",
			"Grade-appropriate responses",
		},
	},
	{
		Tier:        TierFamily,
		Name:        "Family Plan",
		Price:       "KES 500",
		Period:      "per month",
		Description: "Best value for families with multiple children",
		Features: []string{
			"Unlimited questions",
			"Up to 5 children",
			"All grade levels (1-9)",
			"Priority support",
			"Voice and image support",
			"Progress tracking",
			"Offline access to explanations",
			"Family dashboard",
		},
		Popular: true,
	},
	{
		Tier:        TierSchool,
		Name:        "School Partnership",
		Price:       "Custom",
		Period:      "pricing",
		Description: "For schools and educational institutions",
		Features: []string{
			"Unlimited access for all students",
			"Teacher dashboard",
			"Custom curriculum alignment",
			"Analytics and reporting",
			"Training and support",
			"API integration",
			"Bulk user management",
			"White-label option",
		},
	},
}

// All returns the purchasable plans in display order.
func All() []Plan {
	out := make([]Plan, len(catalog))
	for i, p := range catalog {
		p.Features = append([]string(nil), p.Features...)
		out[i] = p
	}
	return out
}

// Lookup returns the plan for a tier. The free tier has no plan entry.
func Lookup(t Tier) (Plan, bool) {
	for _, p := range All() {
		if p.Tier == t {
			return p, true
		}
	}
	return Plan{}, false
}

// Default returns the plan highlighted when the pricing screen opens.
func Default() Plan {
	for _, p := range All() {
		if p.Popular {
			return p
		}
	}
	return All()[0]
}
