package models

// Recommendation is one hospital suggestion produced by the AI advisor.
// Name is free text and is not guaranteed to match any Hospital.Name.
type Recommendation struct {
	Name     string `json:"name"`
	Distance string `json:"distance"`
	Reason   string `json:"reason"`
}

// AIRecommendation is the full advisor answer. It is replaced wholesale on every query.
type AIRecommendation struct {
	Best        *Recommendation `json:"best,omitempty"`
	Closest     *Recommendation `json:"closest,omitempty"`
	Alternative *Recommendation `json:"alternative,omitempty"`
	FirstAid    []string        `json:"first_aid,omitempty"`
}

// Slot names one of the recommendation cards.
type Slot string

const (
	SlotBest        Slot = "best"
	SlotClosest     Slot = "closest"
	SlotAlternative Slot = "alternative"
)

// Pick returns the recommendation in the given slot, or nil.
func (r *AIRecommendation) Pick(slot Slot) *Recommendation {
	if r == nil {
		return nil
	}

	switch slot {
	case SlotBest:
		return r.Best
	case SlotClosest:
		return r.Closest
	case SlotAlternative:
		return r.Alternative
	default:
		return nil
	}
}

// Empty reports whether the advisor returned no suggestion at all.
func (r *AIRecommendation) Empty() bool {
	return r == nil || (r.Best == nil && r.Closest == nil && r.Alternative == nil && len(r.FirstAid) == 0)
}
