package goals

// Tier is the health classification of a goal projection.
type Tier string

const (
	TierOnTrack   Tier = "on_track"
	TierAttention Tier = "attention"
	TierCritical  Tier = "critical"
	TierNone      Tier = "none"
)

// Color is the fixed display colour of the tier.
func (t Tier) Color() string {
	switch t {
	case TierOnTrack:
		return "green"
	case TierAttention:
		return "amber"
	case TierCritical:
		return "red"
	default:
		return "grey"
	}
}

// Label is the human-readable tier name.
func (t Tier) Label() string {
	switch t {
	case TierOnTrack:
		return "On Track"
	case TierAttention:
		return "Needs Attention"
	case TierCritical:
		return "Critical"
	default:
		return "No Data"
	}
}

// TierForProbability buckets a probability percentage on its own:
// >=85 on track, >=60 attention, otherwise critical.
func TierForProbability(probability float64) Tier {
	switch {
	case probability >= 85:
		return TierOnTrack
	case probability >= 60:
		return TierAttention
	default:
		return TierCritical
	}
}
