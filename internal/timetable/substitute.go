package timetable

import (
	"sort"

	"github.com/campushub/timetable-api/internal/models"
)

// Substitution scoring: prior experience with the exact course dominates,
// then department fit, then breadth in the same subject area.
const (
	substExactCourse   = 100
	substSameDept      = 50
	substSubjectPrefix = 10
	subjectPrefixLen   = 2
)

// RankSubstitutes scores every faculty member as a stand-in for the course
// with the given code, excluding excludeFacultyID. Zero-score candidates are
// dropped; the rest sort by descending score, roster order on ties.
func RankSubstitutes(d *Dataset, courseCode, excludeFacultyID string) []models.SubstituteCandidate {
	course, ok := d.CourseByCode(courseCode)
	if !ok {
		return nil
	}
	exclude := normalizeID(excludeFacultyID)
	department := d.CourseDepartment(course.ID)

	var ranked []models.SubstituteCandidate
	for _, f := range d.Faculty {
		if f.ID == exclude {
			continue
		}
		score := substituteScore(d, course, department, f.ID)
		if score == 0 {
			continue
		}
		ranked = append(ranked, models.SubstituteCandidate{
			FacultyID:  f.ID,
			Name:       f.Name,
			Department: f.Department,
			Score:      score,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func substituteScore(d *Dataset, course *models.Course, department, facultyID string) int {
	score := 0
	teachesExact := false
	for _, o := range d.Offerings {
		if o.FacultyID != facultyID {
			continue
		}
		if o.CourseID == course.ID {
			teachesExact = true
		}
		if taught, ok := d.Course(o.CourseID); ok && sharesSubjectPrefix(taught.Code, course.Code) {
			score += substSubjectPrefix
		}
	}
	if teachesExact {
		score += substExactCourse
	}
	if f, ok := d.FacultyByID(facultyID); ok && department != "" && f.Department == department {
		score += substSameDept
	}
	return score
}

func sharesSubjectPrefix(a, b string) bool {
	if len(a) < subjectPrefixLen || len(b) < subjectPrefixLen {
		return false
	}
	return a[:subjectPrefixLen] == b[:subjectPrefixLen]
}
