package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// MaxMissingSkills caps the missing-skill list of a report.
const MaxMissingSkills = 10

// Precise contact patterns. The ATS scorer deliberately uses plain substring
// checks instead; these are kept for callers that want strict validation.
const (
	EmailPattern = `[\w\.-]+@[\w\.-]+\.\w+`
	PhonePattern = `\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`
)

// ATSSections are the headings the ATS scorer looks for.
var ATSSections = []string{"experience", "skills", "education", "projects", "summary"}

const (
	jaccardWeight = 0.7
	phraseWeight  = 0.3
	sectionPoints = 40.0
)

// Recommendation messages.
const (
	RecommendationExcellent = "Excellent match! Your resume aligns well with the job."
	RecommendationGood      = "Good match! Consider adding more relevant skills."
	RecommendationFair      = "Fair match. Add more skills from the job description."
	RecommendationLow       = "Low match. Significant skill improvements needed."
)

// ScoreResult is a score that may have been degraded to zero because the
// scorer failed.
type ScoreResult struct {
	Score    float64
	Degraded bool
	Cause    error
}

// guardScore runs a scorer and maps a panic to a degraded zero score.
func guardScore(fn func() float64) (res ScoreResult) {
	defer func() {
		if r := recover(); r != nil {
			res = ScoreResult{Degraded: true, Cause: fmt.Errorf("scorer panicked: %v", r)}
		}
	}()
	return ScoreResult{Score: clampScore(fn())}
}

// ScoreMatch is CalculateMatchScore behind the degraded-result guard.
func ScoreMatch(resumeText, jobDescription string) ScoreResult {
	return guardScore(func() float64 { return CalculateMatchScore(resumeText, jobDescription) })
}

// ScoreATS is CalculateATSScore behind the degraded-result guard.
func ScoreATS(resumeText string) ScoreResult {
	return guardScore(func() float64 { return CalculateATSScore(resumeText) })
}

// CalculateMatchScore blends word-set Jaccard similarity with a bigram
// phrase bonus. The result is in [0,100] with two decimals.
func CalculateMatchScore(resumeText, jobDescription string) float64 {
	resumeWords := longTokenSet(resumeText)
	jobWords := longTokenSet(jobDescription)

	if len(jobWords) == 0 {
		return 0
	}

	intersection := 0
	for w := range resumeWords {
		if _, ok := jobWords[w]; ok {
			intersection++
		}
	}
	union := len(resumeWords) + len(jobWords) - intersection
	if union == 0 {
		return 0
	}

	similarity := round2(float64(intersection) / float64(union) * 100)
	bonus := phraseBonus(resumeText, jobDescription)

	return round2(math.Min(100, similarity*jaccardWeight+bonus*phraseWeight))
}

// phraseBonus is the share of job bigrams that also appear in the resume,
// in percent.
func phraseBonus(resumeText, jobDescription string) float64 {
	jobBigrams := bigrams(jobDescription)
	if len(jobBigrams) == 0 {
		return 0
	}
	resumeBigrams := bigrams(resumeText)

	matching := 0
	for b := range jobBigrams {
		if _, ok := resumeBigrams[b]; ok {
			matching++
		}
	}
	return float64(matching) / float64(len(jobBigrams)) * 100
}

// longTokenSet lowercases and splits text on whitespace, keeping tokens of
// more than two characters.
func longTokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if utf8.RuneCountInString(w) > 2 {
			set[w] = struct{}{}
		}
	}
	return set
}

// bigrams builds the set of adjacent token pairs over every token.
func bigrams(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{})
	for i := 0; i+1 < len(words); i++ {
		set[words[i]+" "+words[i+1]] = struct{}{}
	}
	return set
}

// CalculateATSScore rates how well a resume is likely to pass an applicant
// tracking system: length, section headings, line structure and contact
// details.
func CalculateATSScore(resumeText string) float64 {
	score := 0.0

	wordCount := len(strings.Fields(resumeText))
	switch {
	case wordCount >= 400 && wordCount <= 1000:
		score += 20
	case wordCount >= 200 && wordCount <= 1500:
		score += 10
	}

	lower := strings.ToLower(resumeText)
	found := 0
	for _, section := range ATSSections {
		if strings.Contains(lower, section) {
			found++
		}
	}
	score += float64(found) / float64(len(ATSSections)) * sectionPoints

	if len(strings.Split(resumeText, "\n")) > 5 {
		score += 10
	}

	if strings.Contains(lower, "email") || strings.Contains(resumeText, "@") {
		score += 15
	}
	if strings.Contains(lower, "phone") {
		score += 15
	}

	return clampScore(math.RoundToEven(score))
}

// FindMissingSkills returns the job skills absent from the resume,
// compared case-insensitively, sorted.
func FindMissingSkills(resumeSkills, jobSkills []string) []string {
	have := make(map[string]struct{}, len(resumeSkills))
	for _, s := range resumeSkills {
		have[strings.ToLower(s)] = struct{}{}
	}

	missing := make(map[string]struct{})
	for _, s := range jobSkills {
		s = strings.ToLower(s)
		if _, ok := have[s]; !ok {
			missing[s] = struct{}{}
		}
	}
	return sortedKeys(missing)
}

// ResumeStrength labels an ATS score.
func ResumeStrength(atsScore float64) models.Strength {
	switch {
	case atsScore >= 80:
		return models.StrengthStrong
	case atsScore >= 60:
		return models.StrengthGood
	case atsScore >= 40:
		return models.StrengthFair
	default:
		return models.StrengthNeedsImprovement
	}
}

// Recommendation picks the advice for a pair of scores. The checks run in
// order, so a high match score with a weak ATS score falls through to the
// fair or low message.
func Recommendation(matchScore, atsScore float64) string {
	switch {
	case matchScore >= 80 && atsScore >= 80:
		return RecommendationExcellent
	case matchScore >= 60 && atsScore >= 60:
		return RecommendationGood
	case matchScore >= 40:
		return RecommendationFair
	default:
		return RecommendationLow
	}
}

// GenerateMatchReport scores a resume against a job description.
func GenerateMatchReport(resumeText, jobDescription string, resumeSkills, missingSkills []string) models.MatchReport {
	return AssembleReport(
		ScoreMatch(resumeText, jobDescription),
		ScoreATS(resumeText),
		resumeSkills,
		missingSkills,
	)
}

// AssembleReport combines already computed scores into a report. Degraded
// scores are reported as warnings.
func AssembleReport(match, ats ScoreResult, resumeSkills, missingSkills []string) models.MatchReport {
	var warnings []string
	if match.Degraded {
		warnings = append(warnings, "job match score unavailable: "+match.Cause.Error())
	}
	if ats.Degraded {
		warnings = append(warnings, "ats score unavailable: "+ats.Cause.Error())
	}

	top := append([]string{}, missingSkills...)
	sort.Strings(top)
	if len(top) > MaxMissingSkills {
		top = top[:MaxMissingSkills]
	}

	return models.MatchReport{
		JobMatchScore:      match.Score,
		ATSScore:           ats.Score,
		ResumeStrength:     ResumeStrength(ats.Score),
		TotalSkillsFound:   len(resumeSkills),
		MissingSkillsCount: len(missingSkills),
		MissingSkills:      top,
		Recommendation:     Recommendation(match.Score, ats.Score),
		Warnings:           warnings,
	}
}

func round2(v float64) float64 {
	return models.RoundScore(v)
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
