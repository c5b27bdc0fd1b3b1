// Package quota is the pure plan-capability policy. It has no dependencies
// and no state; callers re-evaluate it on every gated mutation because the
// usage counters move between calls.
package quota

// Tier is the closed set of subscription plans. The capability table below
// is the single place plan limits live; nothing else compares tier strings.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// Unlimited is the sentinel for "no limit" in Limits and Decision fields.
const Unlimited = -1

// Limits is one row of the capability table.
type Limits struct {
	MaxRecords int
	MaxAIScans int
}

var capabilities = map[Tier]Limits{
	TierFree: {MaxRecords: 10, MaxAIScans: 5},
	TierPro:  {MaxRecords: Unlimited, MaxAIScans: Unlimited},
}

// Usage is a snapshot of the owner's counters at the moment a gated
// operation is attempted.
type Usage struct {
	TrackedRecords int
	AIScansUsed    int
}

// Decision is the evaluation result. Remaining values are non-negative for
// capped tiers and Unlimited otherwise.
type Decision struct {
	CanCreateRecord   bool
	CanRunAnalysis    bool
	RemainingRecords  int
	RemainingAnalyses int
}

// LimitsFor returns the capability row for the tier. Unknown tiers get the
// free limits; the profile service should never send one, but a stale plan
// string must not grant unlimited use.
func LimitsFor(tier Tier) Limits {
	if l, ok := capabilities[tier]; ok {
		return l
	}
	return capabilities[TierFree]
}

// Evaluate maps tier plus current usage to permissions and remaining
// headroom. Pure function over immutable inputs.
func Evaluate(tier Tier, usage Usage) Decision {
	limits := LimitsFor(tier)
	return Decision{
		CanCreateRecord:   allowed(limits.MaxRecords, usage.TrackedRecords),
		CanRunAnalysis:    allowed(limits.MaxAIScans, usage.AIScansUsed),
		RemainingRecords:  remaining(limits.MaxRecords, usage.TrackedRecords),
		RemainingAnalyses: remaining(limits.MaxAIScans, usage.AIScansUsed),
	}
}

func allowed(limit, used int) bool {
	return limit == Unlimited || used < limit
}

func remaining(limit, used int) int {
	if limit == Unlimited {
		return Unlimited
	}
	if used >= limit {
		return 0
	}
	return limit - used
}
