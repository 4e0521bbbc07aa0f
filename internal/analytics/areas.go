package analytics

const (
	AreaMemory     = "memory"
	AreaAttention  = "attention"
	AreaPerception = "perception"
	AreaLanguage   = "language"
	AreaExecutive  = "executive"
	AreaProcessing = "processing"
	AreaSpatial    = "spatial"
	AreaCreativity = "creativity"
	AreaGeneral    = "general"
)

var KnownAreas = []string{
	AreaMemory,
	AreaAttention,
	AreaLanguage,
	AreaExecutive,
	AreaProcessing,
	AreaCreativity,
	AreaSpatial,
	AreaPerception,
	AreaGeneral,
}

var exerciseAreas = map[string]string{
	// memory
	"memory_sequence": AreaMemory,
	"word_pairs":      AreaMemory,
	"visual_recall":   AreaMemory,
	"mindful_memory":  AreaMemory,
	"word_recall":     AreaMemory,
	"number_sequence": AreaMemory,
	"visual_memory":   AreaMemory,
	// attention
	"attention":           AreaAttention,
	"divided_attention":   AreaAttention,
	"sustained_attention": AreaAttention,
	"selective_attention": AreaAttention,
	"blue_dots":           AreaAttention,
	"attention_focus":     AreaAttention,
	// perception
	"visual_perception":  AreaPerception,
	"object_recognition": AreaPerception,
	// language
	"word_finding":          AreaLanguage,
	"sentence_completion":   AreaLanguage,
	"verbal_fluency":        AreaLanguage,
	"reading_comprehension": AreaLanguage,
	"word_association":      AreaLanguage,
	"vocabulary":            AreaLanguage,
	// executive
	"planning_task":         AreaExecutive,
	"cognitive_flexibility": AreaExecutive,
	"inhibition_control":    AreaExecutive,
	"task_switching":        AreaExecutive,
	"sequencing":            AreaExecutive,
	// processing speed
	"speed_processing": AreaProcessing,
	"rapid_naming":     AreaProcessing,
	"symbol_coding":    AreaProcessing,
	"reaction_time":    AreaProcessing,
	"speed_matching":   AreaProcessing,
	// spatial reasoning
	"spatial_rotation":   AreaSpatial,
	"mental_rotation":    AreaSpatial,
	"spatial_navigation": AreaSpatial,
	"block_design":       AreaSpatial,
	"3d_rotation":        AreaSpatial,
	"mental_folding":     AreaSpatial,
	"perspective_taking": AreaSpatial,
	"spatial_memory":     AreaSpatial,
	// creativity
	"creative_thinking":        AreaCreativity,
	"divergent_thinking":       AreaCreativity,
	"idea_generation":          AreaCreativity,
	"creative_problem_solving": AreaCreativity,
	"alternative_uses":         AreaCreativity,
	"musical_creativity":       AreaCreativity,
	"story_building":           AreaCreativity,
	"visual_metaphors":         AreaCreativity,
	"pattern_breaking":         AreaCreativity,
	"perspective_shift":        AreaCreativity,
	// general
	"general_cognitive":    AreaGeneral,
	"cognitive_assessment": AreaGeneral,
	"brain_training":       AreaGeneral,
	"mindful_breathing":    AreaGeneral,
	"cognitive_warm_up":    AreaGeneral,
}

// contextualExercises lists exercises that count toward whichever of their
// candidate areas the session selected, in priority order. The first
// candidate is the default when the session selected none of them.
var contextualExercises = map[string][]string{
	"story_creation":      {AreaCreativity, AreaLanguage},
	"pattern_recognition": {AreaPerception, AreaProcessing},
	"focused_attention":   {AreaPerception, AreaAttention},
	"working_memory":      {AreaMemory, AreaExecutive},
	"spatial_awareness":   {AreaPerception, AreaSpatial},
	"mental_flexibility":  {AreaGeneral, AreaExecutive},
}

// MapToArea resolves an exercise id to its focus area. ok is false for
// exercises it does not know.
func MapToArea(exerciseID string, sessionAreas []string) (area string, ok bool) {
	if candidates, found := contextualExercises[exerciseID]; found {
		for _, c := range candidates {
			if containsArea(sessionAreas, c) {
				return c, true
			}
		}
		return candidates[0], true
	}
	area, ok = exerciseAreas[exerciseID]
	return area, ok
}

func containsArea(areas []string, area string) bool {
	for _, a := range areas {
		if a == area {
			return true
		}
	}
	return false
}

// uniqueAreas drops repeated tags, keeping first-appearance order.
func uniqueAreas(areas []string) []string {
	out := make([]string, 0, len(areas))
	for _, a := range areas {
		if a == "" || containsArea(out, a) {
			continue
		}
		out = append(out, a)
	}
	return out
}
