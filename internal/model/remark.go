package model

import (
	"strings"
	"time"
)

// GoalCode selects the narrative goal of a remark
type GoalCode string

const (
	// GoalGrowth narrates growth as initial state, change, and present
	GoalGrowth GoalCode = "A"
	// GoalReassurance reassures guardians: observation, support, outlook
	GoalReassurance GoalCode = "B"
	// GoalNextSteps proposes two or three concrete next steps
	GoalNextSteps GoalCode = "C"
	// GoalBalanced is the fallback for unset or unknown codes
	GoalBalanced GoalCode = ""
)

// ParseGoalCode maps free input to a known goal code; anything else is GoalBalanced.
func ParseGoalCode(s string) GoalCode {
	switch code := GoalCode(strings.ToUpper(strings.TrimSpace(s))); code {
	case GoalGrowth, GoalReassurance, GoalNextSteps:
		return code
	default:
		return GoalBalanced
	}
}

// GradeLevel names the audience tier a remark is written for
type GradeLevel string

const (
	GradeElementary1  GradeLevel = "elementary_1"
	GradeElementary2  GradeLevel = "elementary_2"
	GradeElementary3  GradeLevel = "elementary_3"
	GradeElementary4  GradeLevel = "elementary_4"
	GradeElementary5  GradeLevel = "elementary_5"
	GradeElementary6  GradeLevel = "elementary_6"
	GradeMiddleSchool GradeLevel = "middle_school"
	GradeHighSchool   GradeLevel = "high_school"
	// GradeUnspecified addresses the student and guardian in general terms
	GradeUnspecified GradeLevel = ""
)

// GradeLevels lists every named tier in display order.
var GradeLevels = []GradeLevel{
	GradeElementary1, GradeElementary2, GradeElementary3,
	GradeElementary4, GradeElementary5, GradeElementary6,
	GradeMiddleSchool, GradeHighSchool,
}

// ParseGradeLevel maps free input to a known tier; anything else is GradeUnspecified.
func ParseGradeLevel(s string) GradeLevel {
	level := GradeLevel(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range GradeLevels {
		if level == known {
			return level
		}
	}
	return GradeUnspecified
}

// Destination locates the spreadsheet cell a remark is written to.
// It is supplied by the caller and echoed back untouched.
type Destination struct {
	Sheet string `json:"sheet"`
	Cell  string `json:"cell"`
}

// String renders the locator as Sheet!A1
func (d *Destination) String() string {
	if d == nil || d.Cell == "" {
		return ""
	}
	if d.Sheet == "" {
		return d.Cell
	}
	return d.Sheet + "!" + d.Cell
}

// RemarkRequest is the input to remark generation
type RemarkRequest struct {
	MemoLines   []string     `json:"memo_lines" validate:"max=30,dive,max=400"`
	GoalCode    GoalCode     `json:"goal_code"`
	CharCount   *int         `json:"char_count,omitempty" validate:"omitempty,min=40,max=1200"`
	GradeLevel  GradeLevel   `json:"grade_level,omitempty"`
	Destination *Destination `json:"destination,omitempty"`
}

// GeneratedRemark is the normalized output of remark generation
type GeneratedRemark struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	GoalCode    GoalCode     `json:"goal_code"`
	Destination *Destination `json:"destination,omitempty"`
	WrittenTo   string       `json:"written_to,omitempty"`
	Warnings    []string     `json:"warnings,omitempty"`
	GeneratedAt time.Time    `json:"generated_at"`
}
