package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsClockTime(t *testing.T) {
	valid := []string{"00:00", "09:30", "12:00", "19:45", "23:59"}
	for _, s := range valid {
		assert.True(t, IsClockTime(s), s)
	}

	invalid := []string{"", "24:00", "09:60", "9:00", "09:5", "09:00:00", "0900", "morning", " 09:00", "09:00 "}
	for _, s := range invalid {
		assert.False(t, IsClockTime(s), s)
	}
}

func planContext() *PlanningContext {
	return &PlanningContext{
		UserID:         "u1",
		TargetDate:     time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		DailyTaskLimit: 2,
		AvailableTasks: []CandidateTask{
			{ID: "t1", ProjectID: "p1", Priority: 3, Complexity: ComplexityMedium, EnergyType: EnergyRoutine},
			{ID: "t2", ProjectID: "p1", Priority: 3, Complexity: ComplexitySmall, EnergyType: EnergyRoutine},
			{ID: "t3", ProjectID: "p1", Priority: 3, Complexity: ComplexityLarge, EnergyType: EnergyRoutine},
		},
	}
}

func TestGeneratedPlanVerify(t *testing.T) {
	start := "09:00"
	bad := "25:00"

	tests := []struct {
		name    string
		plan    GeneratedPlan
		wantErr string
	}{
		{
			"valid",
			GeneratedPlan{
				Tasks: []PlanItem{
					{TaskID: "t1", Order: 1, RecommendedStartTime: &start},
					{TaskID: "t2", Order: 2},
				},
				Reasoning: "fine",
			},
			"",
		},
		{
			"empty plan passes",
			GeneratedPlan{Reasoning: "nothing to do"},
			"",
		},
		{
			"over the limit",
			GeneratedPlan{
				Tasks: []PlanItem{
					{TaskID: "t1", Order: 1},
					{TaskID: "t2", Order: 2},
					{TaskID: "t3", Order: 3},
				},
				Reasoning: "too many",
			},
			"limit",
		},
		{
			"empty reasoning",
			GeneratedPlan{Tasks: []PlanItem{{TaskID: "t1", Order: 1}}},
			"reasoning",
		},
		{
			"unknown task",
			GeneratedPlan{
				Tasks:     []PlanItem{{TaskID: "ghost", Order: 1}},
				Reasoning: "hm",
			},
			"not among",
		},
		{
			"sparse order",
			GeneratedPlan{
				Tasks: []PlanItem{
					{TaskID: "t1", Order: 1},
					{TaskID: "t2", Order: 3},
				},
				Reasoning: "skipped 2",
			},
			"order",
		},
		{
			"bad start time",
			GeneratedPlan{
				Tasks:     []PlanItem{{TaskID: "t1", Order: 1, RecommendedStartTime: &bad}},
				Reasoning: "hm",
			},
			"start time",
		},
	}

	pctx := planContext()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Verify(pctx)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPlanItemWireShape(t *testing.T) {
	// Advisor responses use camelCase keys and null for absent times
	raw := `{"taskId":"t1","order":1,"recommendedStartTime":"09:00","recommendedEndTime":null,"aiAdvice":"start small"}`

	var item PlanItem
	require.NoError(t, json.Unmarshal([]byte(raw), &item))
	assert.Equal(t, "t1", item.TaskID)
	assert.Equal(t, 1, item.Order)
	require.NotNil(t, item.RecommendedStartTime)
	assert.Equal(t, "09:00", *item.RecommendedStartTime)
	assert.Nil(t, item.RecommendedEndTime)
	require.NotNil(t, item.AIAdvice)
	assert.Equal(t, "start small", *item.AIAdvice)
}

func TestPlanSourceIsValid(t *testing.T) {
	assert.True(t, PlanSourceAdvisor.IsValid())
	assert.True(t, PlanSourceHeuristic.IsValid())
	assert.False(t, PlanSource("ORACLE").IsValid())
}
