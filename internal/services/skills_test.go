package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCategories = []string{
	CategoryProgrammingLanguages,
	CategoryWebFrameworks,
	CategoryDatabases,
	CategoryCloudPlatforms,
	CategoryDevOpsTools,
	CategoryAIML,
	CategoryOtherTools,
}

func TestExtractSkillsAlwaysReturnsEveryCategory(t *testing.T) {
	for _, text := range []string{"", "nothing relevant here", "python docker aws"} {
		findings := ExtractSkills(text)
		require.Len(t, findings, len(allCategories))
		for _, cat := range allCategories {
			skills, ok := findings[cat]
			assert.True(t, ok, cat)
			assert.NotNil(t, skills, cat)
		}
	}
	assert.Equal(t, allCategories, DefaultCatalog.Categories())
}

func TestExtractSkillsScenario(t *testing.T) {
	resume := CleanText("I have experience with python and react. Skills: git, docker.")
	job := "We need python, react, and aws experience."

	resumeSkills := FlattenSkills(ExtractSkills(resume))
	jobSkills := FlattenSkills(ExtractSkills(job))

	assert.Equal(t, []string{"docker", "git", "python", "react"}, resumeSkills)
	assert.Equal(t, []string{"aws", "python", "react"}, jobSkills)
	assert.Equal(t, []string{"aws"}, FindMissingSkills(resumeSkills, jobSkills))
}

func TestExtractSkillsWordBoundaries(t *testing.T) {
	findings := ExtractSkills("Built Javascript apps on Google Cloud with Machine Learning; used GoLang once")

	assert.Equal(t, []string{"javascript"}, findings[CategoryProgrammingLanguages])
	assert.Equal(t, []string{"google cloud"}, findings[CategoryCloudPlatforms])
	assert.Equal(t, []string{"machine learning"}, findings[CategoryAIML])
	assert.Empty(t, findings[CategoryWebFrameworks])
}

func TestExtractSkillsDeduplicatesWithinCategory(t *testing.T) {
	findings := ExtractSkills("docker docker DOCKER")
	assert.Equal(t, []string{"docker"}, findings[CategoryDevOpsTools])
}

func TestSkillSharedAcrossCategories(t *testing.T) {
	findings := ExtractSkills("git")

	assert.Equal(t, []string{"git"}, findings[CategoryDevOpsTools])
	assert.Equal(t, []string{"git"}, findings[CategoryOtherTools])
	assert.Equal(t, 2, findings.Total())
	assert.Equal(t, []string{"git"}, FlattenSkills(findings))
}

func TestSummarizeSkills(t *testing.T) {
	summary := DefaultCatalog.Summarize(ExtractSkills("python go postgresql redis aws"))

	assert.Equal(t, 5, summary.TotalSkillsFound)
	assert.Equal(t, 2, summary.ByCategory[CategoryProgrammingLanguages])
	assert.Equal(t, 2, summary.ByCategory[CategoryDatabases])
	assert.Equal(t, 1, summary.ByCategory[CategoryCloudPlatforms])
	assert.Equal(t, 0, summary.ByCategory[CategoryAIML])
	assert.Len(t, summary.ByCategory, len(allCategories))
}

func TestCustomCatalog(t *testing.T) {
	catalog := NewSkillCatalog([]CatalogCategory{
		{Name: "languages", Skills: []string{"Go", "go", "Zig"}},
		{Name: "empty"},
	})

	findings := catalog.ExtractSkills("Writing go and zig")
	assert.Equal(t, []string{"go", "zig"}, findings["languages"])
	assert.Equal(t, []string{}, findings["empty"])
}

func TestExtractSkillsConcurrentReaders(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			findings := ExtractSkills("python kubernetes terraform")
			assert.Equal(t, []string{"python"}, findings[CategoryProgrammingLanguages])
		}()
	}
	wg.Wait()
}
