package services

import (
	"regexp"
	"sort"
	"strings"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// Skill categories, in catalog order.
const (
	CategoryProgrammingLanguages = "programming_languages"
	CategoryWebFrameworks        = "web_frameworks"
	CategoryDatabases            = "databases"
	CategoryCloudPlatforms       = "cloud_platforms"
	CategoryDevOpsTools          = "devops_tools"
	CategoryAIML                 = "ai_ml"
	CategoryOtherTools           = "other_tools"
)

type skillPattern struct {
	name    string
	pattern *regexp.Regexp
}

type skillCategory struct {
	name   string
	skills []skillPattern
}

// SkillCatalog is the fixed skill dictionary. It is built once and only read
// afterwards, so it is safe for concurrent use.
type SkillCatalog struct {
	categories []skillCategory
}

// DefaultCatalog is the process-wide skill dictionary.
var DefaultCatalog = NewSkillCatalog([]CatalogCategory{
	{CategoryProgrammingLanguages, []string{
		"python", "java", "javascript", "typescript", "c++", "c#", "go",
		"rust", "php", "ruby", "swift", "kotlin", "scala", "r", "matlab",
		"sql", "html", "css", "bash", "shell",
	}},
	{CategoryWebFrameworks, []string{
		"react", "vue", "angular", "flask", "django", "fastapi", "express",
		"spring", "springboot", "nodejs", "nextjs", "svelte", "nuxt",
	}},
	{CategoryDatabases, []string{
		"postgresql", "mysql", "mongodb", "redis", "cassandra", "sqlite",
		"oracle", "elasticsearch", "dynamodb", "firestore", "neo4j",
	}},
	{CategoryCloudPlatforms, []string{
		"aws", "azure", "gcp", "google cloud", "heroku", "digitalocean",
	}},
	{CategoryDevOpsTools, []string{
		"docker", "kubernetes", "jenkins", "gitlab", "github", "terraform",
		"ansible", "ci/cd", "git", "docker", "prometheus", "grafana",
	}},
	{CategoryAIML, []string{
		"machine learning", "tensorflow", "pytorch", "scikit-learn",
		"nlp", "deep learning", "spacy", "keras", "huggingface", "openai",
		"gemini", "llm", "bert", "gpt",
	}},
	{CategoryOtherTools, []string{
		"git", "linux", "windows", "macos", "agile", "scrum", "jira",
		"confluence", "slack", "rest api", "graphql", "postman",
	}},
})

// CatalogCategory is the input form of one catalog category.
type CatalogCategory struct {
	Name   string
	Skills []string
}

// NewSkillCatalog compiles a case-insensitive, word-bounded pattern for every
// skill literal. Repeated literals within a category are kept once.
func NewSkillCatalog(categories []CatalogCategory) *SkillCatalog {
	c := &SkillCatalog{categories: make([]skillCategory, 0, len(categories))}
	for _, cat := range categories {
		seen := make(map[string]struct{}, len(cat.Skills))
		compiled := skillCategory{name: cat.Name}
		for _, skill := range cat.Skills {
			skill = strings.ToLower(skill)
			if _, dup := seen[skill]; dup {
				continue
			}
			seen[skill] = struct{}{}
			compiled.skills = append(compiled.skills, skillPattern{
				name:    skill,
				pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(skill) + `\b`),
			})
		}
		c.categories = append(c.categories, compiled)
	}
	return c
}

// Categories lists the category names in catalog order.
func (c *SkillCatalog) Categories() []string {
	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		names[i] = cat.name
	}
	return names
}

// ExtractSkills reports, per category, every catalog skill that occurs in
// text as a whole word or phrase. Every category key is present.
func (c *SkillCatalog) ExtractSkills(text string) models.SkillFindings {
	findings := make(models.SkillFindings, len(c.categories))
	for _, cat := range c.categories {
		found := []string{}
		for _, skill := range cat.skills {
			if skill.pattern.MatchString(text) {
				found = append(found, skill.name)
			}
		}
		findings[cat.name] = found
	}
	return findings
}

// Summarize counts findings per category.
func (c *SkillCatalog) Summarize(findings models.SkillFindings) models.SkillSummary {
	byCategory := make(map[string]int, len(c.categories))
	for _, cat := range c.categories {
		byCategory[cat.name] = len(findings[cat.name])
	}
	return models.SkillSummary{
		TotalSkillsFound: findings.Total(),
		ByCategory:       byCategory,
		Skills:           findings,
	}
}

// ExtractSkills runs the default catalog over text.
func ExtractSkills(text string) models.SkillFindings {
	return DefaultCatalog.ExtractSkills(text)
}

// FlattenSkills unions all categories into a sorted, deduplicated list of
// lowercase skills.
func FlattenSkills(findings models.SkillFindings) []string {
	set := make(map[string]struct{})
	for _, skills := range findings {
		for _, s := range skills {
			set[strings.ToLower(s)] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
