// Package plan resolves an owner's subscription tier for quota decisions.
package plan

import (
	"context"
	"strings"

	"github.com/Rekrutin/rekrutinai-sub000/domain/quota"
	"github.com/Rekrutin/rekrutinai-sub000/pkg/common"
)

// ClaimSource reads the tier from the authenticated request context, where
// the auth middleware places the token's plan claim. Unknown or missing
// values fall back to the configured default.
type ClaimSource struct {
	defaultTier quota.Tier
}

// NewClaimSource builds a ClaimSource with the given default plan name.
func NewClaimSource(defaultPlan string) *ClaimSource {
	return &ClaimSource{defaultTier: parseTier(defaultPlan, quota.TierFree)}
}

// Tier implements ports.PlanSource.
func (s *ClaimSource) Tier(ctx context.Context, ownerID string) (quota.Tier, error) {
	if claim, ok := common.GetPlan(ctx); ok {
		return parseTier(claim, s.defaultTier), nil
	}
	return s.defaultTier, nil
}

func parseTier(name string, fallback quota.Tier) quota.Tier {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case string(quota.TierFree):
		return quota.TierFree
	case string(quota.TierPro):
		return quota.TierPro
	default:
		return fallback
	}
}
