package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func area(name string, current, average float64, status ImprovementStatus) FocusAreaAnalytics {
	return FocusAreaAnalytics{AreaName: name, CurrentScore: current, AverageScore: average, ImprovementStatus: status}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		area FocusAreaAnalytics
		want Category
	}{
		{"excellent current beats decline", area("memory", 96, 50, StatusDeclining), Strength},
		{"excellent average", area("memory", 40, 90, StatusDeclining), Strength},
		{"high current declining above floor", area("memory", 82, 65, StatusDeclining), Strength},
		{"high average declining below floor", area("memory", 65, 80, StatusDeclining), ImprovementArea},
		{"high average stable", area("memory", 65, 80, StatusStable), Strength},
		{"declining low performer", area("memory", 65, 65, StatusDeclining), ImprovementArea},
		{"low current", area("memory", 59, 70, StatusStable), ImprovementArea},
		{"low average", area("memory", 70, 64, StatusImproving), ImprovementArea},
		{"improving middle", area("memory", 70, 70, StatusImproving), Strength},
		{"stable middle", area("memory", 70, 70, StatusStable), Uncategorized},
		{"boundary high current", area("memory", 80, 0, StatusStable), Strength},
		{"boundary excellent current", area("memory", 95, 0, StatusDeclining), Strength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.area))
		})
	}
}

func TestClassify_KeepsOrderAndSkipsUncategorized(t *testing.T) {
	improvement, strengths := Classify([]FocusAreaAnalytics{
		area("memory", 96, 96, StatusStable),
		area("attention", 65, 65, StatusDeclining),
		area("language", 70, 70, StatusStable),
		area("spatial", 72, 72, StatusImproving),
		area("executive", 30, 30, StatusStable),
	})

	assert.Equal(t, []string{"attention", "executive"}, improvement)
	assert.Equal(t, []string{"memory", "spatial"}, strengths)
}

func TestClassify_Empty(t *testing.T) {
	improvement, strengths := Classify(nil)
	assert.NotNil(t, improvement)
	assert.NotNil(t, strengths)
	assert.Empty(t, improvement)
	assert.Empty(t, strengths)
}
