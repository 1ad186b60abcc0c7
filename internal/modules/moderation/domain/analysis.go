package domain

// Issue is one flagged compliance problem
type Issue struct {
	Category   string    `json:"category"`
	Snippet    string    `json:"snippet"`
	Reason     string    `json:"reason"`
	Suggestion string    `json:"suggestion"`
	Severity   RiskLevel `json:"severity"`
}

// AnalysisResult is the compliance verdict for one snapshot of composed content
type AnalysisResult struct {
	IsSafe        bool      `json:"isSafe"`
	OverallRisk   RiskLevel `json:"overallRisk"`
	Issues        []Issue   `json:"issues"`
	RevisedText   string    `json:"revisedText"`
	ImageAnalysis *string   `json:"imageAnalysis,omitempty"`
}

// Normalize fills gaps the model may leave: unknown risk levels and a missing issue list.
func (r *AnalysisResult) Normalize() {
	if !r.OverallRisk.IsValid() {
		if r.IsSafe {
			r.OverallRisk = RiskLevelSAFE
		} else {
			r.OverallRisk = RiskLevelWARNING
		}
	} else if parsed, err := ParseRiskLevel(string(r.OverallRisk)); err == nil {
		r.OverallRisk = parsed
	}

	if r.Issues == nil {
		r.Issues = []Issue{}
	}
	for i := range r.Issues {
		sev, err := ParseRiskLevel(string(r.Issues[i].Severity))
		if err != nil {
			sev = RiskLevelWARNING
		}
		r.Issues[i].Severity = sev
	}
}

// MarkFixed returns the verdict after the suggested rewrite is accepted without another check
func (r AnalysisResult) MarkFixed() AnalysisResult {
	r.IsSafe = true
	r.OverallRisk = RiskLevelSAFE
	r.Issues = []Issue{}
	return r
}

// Clone returns a deep copy
func (r AnalysisResult) Clone() AnalysisResult {
	r.Issues = append([]Issue{}, r.Issues...)
	if r.ImageAnalysis != nil {
		s := *r.ImageAnalysis
		r.ImageAnalysis = &s
	}
	return r
}
