package models

import (
	"time"

	"github.com/google/uuid"
)

// JobTypeLength is how many characters of the job description label a record.
const JobTypeLength = 100

type AnalysisRecord struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Filename       string        `gorm:"type:varchar(255);not null" json:"filename"`
	JobType        string        `gorm:"type:varchar(100);not null" json:"job_type"`
	JobDescription string        `gorm:"type:text;not null" json:"-"`
	JobMatchScore  float64       `gorm:"not null" json:"job_match_score"`
	ATSScore       float64       `gorm:"column:ats_score;not null" json:"ats_score"`
	ResumeStrength Strength      `gorm:"type:varchar(50);not null" json:"resume_strength"`
	SkillsFound    SkillFindings `gorm:"type:text;serializer:json;not null" json:"skills_found"`
	MissingSkills  MissingSkills `gorm:"type:text;serializer:json;not null" json:"missing_skills"`
	Recommendation string        `gorm:"type:text" json:"recommendation"`
	CreatedAt      time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (AnalysisRecord) TableName() string {
	return "resume_analyses"
}

// NewAnalysisRecord snapshots a report for persistence.
func NewAnalysisRecord(filename, jobDescription string, findings SkillFindings, report MatchReport) *AnalysisRecord {
	return &AnalysisRecord{
		ID:             uuid.New(),
		Filename:       filename,
		JobType:        truncateRunes(jobDescription, JobTypeLength),
		JobDescription: jobDescription,
		JobMatchScore:  report.JobMatchScore,
		ATSScore:       report.ATSScore,
		ResumeStrength: report.ResumeStrength,
		SkillsFound:    findings,
		MissingSkills: MissingSkills{
			Count: report.MissingSkillsCount,
			List:  report.MissingSkills,
		},
		Recommendation: report.Recommendation,
	}
}

// AnalysisStats aggregates every stored record.
type AnalysisStats struct {
	TotalAnalyses        int64   `json:"total_analyses"`
	AverageJobMatchScore float64 `json:"average_job_match_score"`
	AverageATSScore      float64 `json:"average_ats_score"`
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
