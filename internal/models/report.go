package models

// SkillFindings maps a catalog category to the skills found for it, in
// catalog order.
type SkillFindings map[string][]string

// Total counts every finding across categories.
func (f SkillFindings) Total() int {
	total := 0
	for _, skills := range f {
		total += len(skills)
	}
	return total
}

type Strength string

const (
	StrengthStrong           Strength = "Strong"
	StrengthGood             Strength = "Good"
	StrengthFair             Strength = "Fair"
	StrengthNeedsImprovement Strength = "Needs Improvement"
)

type MissingSkills struct {
	Count int      `json:"count"`
	List  []string `json:"list"`
}

// MatchReport is the outcome of scoring one resume against one job.
type MatchReport struct {
	JobMatchScore      float64  `json:"job_match_score"`
	ATSScore           float64  `json:"ats_score"`
	ResumeStrength     Strength `json:"resume_strength"`
	TotalSkillsFound   int      `json:"total_skills_found"`
	MissingSkillsCount int      `json:"missing_skills_count"`
	MissingSkills      []string `json:"missing_skills"`
	Recommendation     string   `json:"recommendation"`
	Warnings           []string `json:"warnings,omitempty"`
}

// ParsedResume holds the text extracted from an uploaded document.
type ParsedResume struct {
	RawText     string `json:"raw_text"`
	CleanedText string `json:"cleaned_text"`
	Length      int    `json:"length"`
}

type SkillSummary struct {
	TotalSkillsFound int            `json:"total_skills_found"`
	ByCategory       map[string]int `json:"by_category"`
	Skills           SkillFindings  `json:"skills"`
}

type ATSResult struct {
	ATSScore   float64 `json:"ats_score"`
	TextLength int     `json:"file_size"`
}

// Response payloads.

type SkillsFoundResponse struct {
	Total      int           `json:"total"`
	ByCategory SkillFindings `json:"by_category"`
}

type AnalysisResponse struct {
	ID             string              `json:"id,omitempty"`
	JobMatchScore  float64             `json:"job_match_score"`
	ATSScore       float64             `json:"ats_score"`
	ResumeStrength Strength            `json:"resume_strength"`
	SkillsFound    SkillsFoundResponse `json:"skills_found"`
	MissingSkills  MissingSkills       `json:"missing_skills"`
	Recommendation string              `json:"recommendation"`
	Warnings       []string            `json:"warnings,omitempty"`
}
