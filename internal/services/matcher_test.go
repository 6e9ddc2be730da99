package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-analyzer/internal/models"
)

func TestCalculateMatchScore(t *testing.T) {
	t.Run("identical text", func(t *testing.T) {
		text := "senior python developer with kubernetes experience"
		assert.Equal(t, 100.0, CalculateMatchScore(text, text))
	})

	t.Run("empty job description", func(t *testing.T) {
		assert.Equal(t, 0.0, CalculateMatchScore("python developer", ""))
	})

	t.Run("only short job words", func(t *testing.T) {
		assert.Equal(t, 0.0, CalculateMatchScore("python developer", "go to it"))
	})

	t.Run("partial overlap", func(t *testing.T) {
		// jaccard 2/6 -> 33.33, bigram bonus 1/2 -> 50
		score := CalculateMatchScore("python developer with react experience", "python developer needed")
		assert.InDelta(t, 38.33, score, 0.001)
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t,
			CalculateMatchScore("python developer", "python developer"),
			CalculateMatchScore("PYTHON Developer", "python DEVELOPER"))
	})

	t.Run("disjoint", func(t *testing.T) {
		assert.Equal(t, 0.0, CalculateMatchScore("gardening cooking", "python developer"))
	})
}

// atsFixture builds a resume with the given number of words spread evenly
// over the given number of lines. headings are used as the first words.
func atsFixture(words, lines int, headings ...string) string {
	tokens := make([]string, 0, words)
	tokens = append(tokens, headings...)
	for len(tokens) < words {
		tokens = append(tokens, "work")
	}

	perLine := words / lines
	out := make([]string, 0, lines)
	for i := 0; i < lines; i++ {
		end := (i + 1) * perLine
		if i == lines-1 {
			end = words
		}
		out = append(out, strings.Join(tokens[i*perLine:end], " "))
	}
	return strings.Join(out, "\n")
}

func TestCalculateATSScore(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{
			name: "three sections with structure",
			text: atsFixture(600, 10, "experience", "skills", "education"),
			want: 54,
		},
		{
			name: "everything present",
			text: atsFixture(500, 8, "experience", "skills", "education", "projects", "summary", "email", "phone"),
			want: 100,
		},
		{
			name: "short single line",
			text: "python developer",
			want: 0,
		},
		{
			name: "medium length, one line, contact by at sign",
			text: atsFixture(250, 1, "jane@example.com"),
			want: 25,
		},
		{
			name: "too long for any length points",
			text: atsFixture(1600, 1, "skills"),
			want: 8,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateATSScore(tt.text))
		})
	}
}

func TestATSScenarioStrength(t *testing.T) {
	score := CalculateATSScore(atsFixture(600, 10, "experience", "skills", "education"))
	require.Equal(t, 54.0, score)
	assert.Equal(t, models.StrengthFair, ResumeStrength(score))
}

func TestResumeStrength(t *testing.T) {
	tests := []struct {
		score float64
		want  models.Strength
	}{
		{100, models.StrengthStrong},
		{80, models.StrengthStrong},
		{79.99, models.StrengthGood},
		{60, models.StrengthGood},
		{59, models.StrengthFair},
		{40, models.StrengthFair},
		{39.5, models.StrengthNeedsImprovement},
		{0, models.StrengthNeedsImprovement},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.score), func(t *testing.T) {
			assert.Equal(t, tt.want, ResumeStrength(tt.score))
		})
	}
}

func TestRecommendation(t *testing.T) {
	tests := []struct {
		match, ats float64
		want       string
	}{
		{85, 90, RecommendationExcellent},
		{80, 80, RecommendationExcellent},
		{85, 70, RecommendationGood},
		{60, 60, RecommendationGood},
		{90, 30, RecommendationFair},
		{40, 0, RecommendationFair},
		{39.99, 100, RecommendationLow},
		{0, 0, RecommendationLow},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v/%v", tt.match, tt.ats), func(t *testing.T) {
			assert.Equal(t, tt.want, Recommendation(tt.match, tt.ats))
		})
	}
}

func TestFindMissingSkills(t *testing.T) {
	missing := FindMissingSkills(
		[]string{"Python", "react"},
		[]string{"python", "React", "AWS", "docker", "aws"},
	)
	assert.Equal(t, []string{"aws", "docker"}, missing)

	assert.Empty(t, FindMissingSkills([]string{"go"}, nil))
}

func TestAssembleReport(t *testing.T) {
	missing := make([]string, 0, 15)
	for i := 14; i >= 0; i-- {
		missing = append(missing, fmt.Sprintf("skill%02d", i))
	}

	report := AssembleReport(
		ScoreResult{Score: 72.5},
		ScoreResult{Score: 64},
		[]string{"go", "python"},
		missing,
	)

	assert.Equal(t, 72.5, report.JobMatchScore)
	assert.Equal(t, 64.0, report.ATSScore)
	assert.Equal(t, models.StrengthGood, report.ResumeStrength)
	assert.Equal(t, 2, report.TotalSkillsFound)
	assert.Equal(t, 15, report.MissingSkillsCount)
	require.Len(t, report.MissingSkills, MaxMissingSkills)
	assert.Equal(t, "skill00", report.MissingSkills[0])
	assert.Equal(t, "skill09", report.MissingSkills[9])
	assert.Equal(t, RecommendationGood, report.Recommendation)
	assert.Empty(t, report.Warnings)

	// input order is left alone
	assert.Equal(t, "skill14", missing[0])
}

func TestAssembleReportDegraded(t *testing.T) {
	match := guardScore(func() float64 { panic("tokenizer exploded") })
	require.True(t, match.Degraded)
	assert.Equal(t, 0.0, match.Score)

	report := AssembleReport(match, ScoreResult{Score: 85}, nil, nil)

	assert.Equal(t, 0.0, report.JobMatchScore)
	assert.Equal(t, RecommendationLow, report.Recommendation)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "tokenizer exploded")
	assert.NotNil(t, report.MissingSkills)
}

func TestGuardScoreClamps(t *testing.T) {
	assert.Equal(t, 100.0, guardScore(func() float64 { return 140 }).Score)
	assert.Equal(t, 0.0, guardScore(func() float64 { return -3 }).Score)
	assert.False(t, guardScore(func() float64 { return 50 }).Degraded)
}

func TestGenerateMatchReport(t *testing.T) {
	resume := CleanText("Experience: python and react developer. Skills: git, docker. Education: BSc.")
	job := "python developer with aws"

	resumeSkills := FlattenSkills(ExtractSkills(resume))
	missing := FindMissingSkills(resumeSkills, FlattenSkills(ExtractSkills(job)))

	report := GenerateMatchReport(resume, job, resumeSkills, missing)

	assert.Equal(t, []string{"aws"}, report.MissingSkills)
	assert.Equal(t, 1, report.MissingSkillsCount)
	assert.Equal(t, 4, report.TotalSkillsFound)
	assert.GreaterOrEqual(t, report.JobMatchScore, 0.0)
	assert.LessOrEqual(t, report.JobMatchScore, 100.0)
	// 3 of 5 sections, no length, line or contact points
	assert.Equal(t, 24.0, report.ATSScore)
	assert.Equal(t, models.StrengthNeedsImprovement, report.ResumeStrength)
}

func TestRound2TiesToEven(t *testing.T) {
	assert.Equal(t, 0.12, round2(0.125))
	assert.Equal(t, 0.38, round2(0.375))
	assert.Equal(t, 33.33, round2(100.0/3))
}
