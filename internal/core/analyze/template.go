package analyze

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/cvlens/cvlens/internal/core/analysis"
)

var strengthsPool = []string{
	"Clear and concise summary section that highlights key achievements",
	"Well-organized work experience with quantifiable results",
	"Strong technical skills section with relevant technologies",
	"Consistent formatting and professional layout",
	"Good use of action verbs in job descriptions",
	"Education credentials clearly presented",
	"Contact information complete and accessible",
	"Appropriate length for experience level",
}

var weakPointsPool = []string{
	"Education section lacks details about relevant coursework",
	"Some job descriptions are too brief and lack impact",
	"Missing certifications or professional development",
	"Contact information could include LinkedIn profile",
	"No metrics quantifying achievements",
	"Skills section could be more comprehensive",
	"Missing dates on some positions",
	"Could benefit from a professional summary",
}

var keywordsPool = []string{
	"Project Management", "Agile", "Leadership", "Cross-functional",
	"Strategic Planning", "Data Analysis", "Stakeholder Management",
	"Team Collaboration", "Problem Solving", "Communication",
	"Innovation", "Process Improvement", "Budget Management",
}

var suggestionsPool = []string{
	"Add metrics to achievement statements (e.g., 'increased sales by 25%')",
	"Include a professional summary at the top highlighting 3-5 years experience",
	"Expand on leadership roles and team management experience",
	"Consider adding a projects section showcasing key accomplishments",
	"Update contact section with LinkedIn and portfolio links",
	"Add relevant certifications and training",
	"Use more action verbs to start bullet points",
	"Tailor skills section to target job requirements",
	"Include volunteer work or community involvement",
	"Ensure consistent date formatting throughout",
}

// Template implements analysis.Analyzer with randomized template feedback:
// a score in [6.5, 8.5] and selections from the fixed pools. It scores the
// shape of a report, not the document content.
type Template struct{}

func (Template) Analyze(_ context.Context, _ string, _ string) (*analysis.Report, error) {
	score := math.Round((6.5+rand.Float64()*2.0)*10) / 10

	return &analysis.Report{
		OverallScore:    score,
		Strengths:       sample(strengthsPool, 3+rand.IntN(3)),
		WeakPoints:      sample(weakPointsPool, 3+rand.IntN(2)),
		MissingKeywords: sample(keywordsPool, 5+rand.IntN(4)),
		Suggestions:     sample(suggestionsPool, 4+rand.IntN(3)),
	}, nil
}

// sample picks n distinct entries from pool in random order.
func sample(pool []string, n int) []string {
	out := make([]string, 0, n)
	for _, i := range rand.Perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}
