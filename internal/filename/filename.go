// Package filename derives download names for generated artifacts from their
// content. A missing match is never an error: each function falls back to a
// fixed default.
package filename

import (
	"regexp"
	"strings"
)

const (
	// DefaultJavaFile is used when generated code has no public class.
	DefaultJavaFile = "GeneratedFile.java"
	// DefaultFeatureFile is used when generated Gherkin has no Feature title.
	DefaultFeatureFile = "GeneratedFeature.feature"

	FeatureExt = ".feature"
	JavaExt    = ".java"
)

var (
	tagRe         = regexp.MustCompile(`(?m)^[ \t]*@([^\s@]+)`)
	scenarioRe    = regexp.MustCompile(`(?m)^[ \t]*Scenario(?: Outline)?:[ \t]*(\S[^\r\n]*)`)
	publicClassRe = regexp.MustCompile(`public\s+class\s+(\w+)`)
	featureRe     = regexp.MustCompile(`(?i)Feature:\s+([A-Za-z]+)`)
	nonAlnumRe    = regexp.MustCompile(`[^a-z0-9]+`)
)

// TestCaseBase returns the base name (no extension) for a Gherkin file
// generated from a test case. The first @tag wins, then the first
// Scenario or Scenario Outline title, then "Testcase_<id>". The result is
// lower-cased with every run of non-alphanumeric characters replaced by a
// single underscore; an empty result becomes "testcase_<id>".
func TestCaseBase(feature, testcaseID string) string {
	candidate := "Testcase_" + testcaseID
	if m := tagRe.FindStringSubmatch(feature); m != nil {
		candidate = m[1]
	} else if m := scenarioRe.FindStringSubmatch(feature); m != nil {
		candidate = m[1]
	}

	base := Sanitize(candidate)
	if base == "" {
		return "testcase_" + testcaseID
	}
	return base
}

// TestCaseFile is TestCaseBase with the .feature extension.
func TestCaseFile(feature, testcaseID string) string {
	return TestCaseBase(feature, testcaseID) + FeatureExt
}

// Sanitize lower-cases s, replaces each run of characters outside [a-z0-9]
// with one underscore and trims underscores from both ends.
func Sanitize(s string) string {
	s = nonAlnumRe.ReplaceAllString(strings.ToLower(s), "_")
	return strings.Trim(s, "_")
}

// JavaFile returns "<Name>.java" for the first public class declared in code.
func JavaFile(code string) string {
	if m := publicClassRe.FindStringSubmatch(code); m != nil {
		return m[1] + JavaExt
	}
	return DefaultJavaFile
}

// FeatureFile names a generated feature file after the first word of its
// Feature title, lower-cased.
func FeatureFile(feature string) string {
	if feature == "" {
		return DefaultFeatureFile
	}
	if m := featureRe.FindStringSubmatch(feature); m != nil {
		return strings.ToLower(m[1]) + FeatureExt
	}
	return DefaultFeatureFile
}

// ResumeReviewPDF is the export name for a candidate's review document.
func ResumeReviewPDF(candidate string) string {
	return ResumeReview(candidate, ".pdf")
}

// ResumeReview is the export name for a candidate's review with the given
// extension (including the dot).
func ResumeReview(candidate, ext string) string {
	name := strings.TrimSpace(candidate)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	return name + "_Resume_Review" + ext
}
