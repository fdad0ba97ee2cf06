package analysis

import "time"

// Stage is a job's position in the fixed pipeline.
type Stage string

const (
	StageQueued     Stage = "queued"
	StageExtracting Stage = "extracting"
	StageAnalyzing  Stage = "analyzing"
	StageGenerating Stage = "generating"
	StageComplete   Stage = "complete"
	StageFailed     Stage = "failed"
)

// IsTerminal returns true for stages no transition leaves.
func (s Stage) IsTerminal() bool {
	return s == StageComplete || s == StageFailed
}

// Message returns the human status line shown to polling clients.
func (s Stage) Message() string {
	switch s {
	case StageQueued:
		return "File uploaded"
	case StageExtracting:
		return "Extracting text"
	case StageAnalyzing:
		return "Running analysis"
	case StageGenerating:
		return "Generating report"
	case StageComplete:
		return "Analysis complete"
	case StageFailed:
		return "Analysis failed"
	}
	return "Processing"
}

// Report is the structured feedback produced for one document.
type Report struct {
	OverallScore    float64   `json:"overall_score"`
	Strengths       []string  `json:"strengths"`
	WeakPoints      []string  `json:"weak_points"`
	MissingKeywords []string  `json:"missing_keywords"`
	Suggestions     []string  `json:"suggestions"`
	AnalysisID      string    `json:"analysis_id"`
	Filename        string    `json:"filename"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

func (r *Report) clone() *Report {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Strengths = append([]string(nil), r.Strengths...)
	cp.WeakPoints = append([]string(nil), r.WeakPoints...)
	cp.MissingKeywords = append([]string(nil), r.MissingKeywords...)
	cp.Suggestions = append([]string(nil), r.Suggestions...)
	return &cp
}

// Job is one submitted document's analysis lifecycle record.
type Job struct {
	ID           string
	SourceName   string
	Stage        Stage
	Progress     int
	Step         int
	Result       *Report
	ErrorMessage string
	CreatedAt    time.Time
}

func (j *Job) clone() *Job {
	cp := *j
	cp.Result = j.Result.clone()
	return &cp
}
