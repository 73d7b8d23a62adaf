package model

// DefaultScore replaces any missing or unreadable score.
const DefaultScore = 5

// UnavailableSummary replaces a missing summary.
const UnavailableSummary = "Analysis unavailable. Please try again."

// Scores holds the four 0..10 communication scores.
type Scores struct {
	Clarity       int `json:"clarity"`
	Assertiveness int `json:"assertiveness"`
	Empathy       int `json:"empathy"`
	Structure     int `json:"structure"`
}

// AnalysisReport is the fixed-schema result of the analyze operation. Every field is
// always serialized; lists are never null.
type AnalysisReport struct {
	Scores            Scores   `json:"scores"`
	Summary           string   `json:"summary"`
	Highlights        []string `json:"highlights"`
	Improvements      []string `json:"improvements"`
	NextSteps         []string `json:"next_steps"`
	Rationale         string   `json:"rationale"`
	WhatWentWellDesc  string   `json:"what_went_well_desc"`
	WhatToImproveDesc string   `json:"what_to_improve_desc"`
	NextStepsDesc     string   `json:"next_steps_desc"`
}

// DefaultReport returns the report produced when nothing usable came back.
func DefaultReport() AnalysisReport {
	return AnalysisReport{
		Scores: Scores{
			Clarity:       DefaultScore,
			Assertiveness: DefaultScore,
			Empathy:       DefaultScore,
			Structure:     DefaultScore,
		},
		Summary:      UnavailableSummary,
		Highlights:   []string{},
		Improvements: []string{},
		NextSteps:    []string{},
	}
}
