package analytics

// Classifier thresholds, as fractions of a perfect score.
const (
	excellentCurrent = 0.95
	excellentAverage = 0.90
	highCurrent      = 0.80
	highAverage      = 0.75
	highDeclineFloor = 0.70
	lowCurrent       = 0.60
	lowAverage       = 0.65
)

type Category int

const (
	Uncategorized Category = iota
	Strength
	ImprovementArea
)

// Categorize places one area. Rules are checked in order and the first match
// wins.
func Categorize(a FocusAreaAnalytics) Category {
	current := a.CurrentScore / 100
	average := a.AverageScore / 100
	declining := a.ImprovementStatus == StatusDeclining

	// Excellent: strength regardless of trend
	if current >= excellentCurrent || average >= excellentAverage {
		return Strength
	}

	// High performer: strength unless declining with a weak latest score
	if current >= highCurrent || average >= highAverage {
		if declining && current < highDeclineFloor {
			return ImprovementArea
		}
		return Strength
	}

	// Low performer
	if declining || current < lowCurrent || average < lowAverage {
		return ImprovementArea
	}

	if a.ImprovementStatus == StatusImproving {
		return Strength
	}
	return Uncategorized
}

// Classify splits areas into improvement areas and strengths, keeping input
// order. An area may land in neither.
func Classify(areas []FocusAreaAnalytics) (improvement []string, strengths []string) {
	improvement = []string{}
	strengths = []string{}
	for _, a := range areas {
		switch Categorize(a) {
		case Strength:
			strengths = append(strengths, a.AreaName)
		case ImprovementArea:
			improvement = append(improvement, a.AreaName)
		}
	}
	return improvement, strengths
}
