package resume

import (
	"regexp"
	"strings"
	"time"

	"github.com/Dharanish-AM/InterVueAI/internal/domain"
)

// Extraction is a cascade of independent heuristic rules applied in a
// fixed priority order. No single rule is reliable on its own; the
// ordering plus first-match-wins keeps the result deterministic without
// structural parsing. Extraction never fails: a rule that finds nothing
// degrades to an empty field.

const (
	maxSkills       = 10
	maxRawTextChars = 2000
	nameScanLines   = 5
	skillSpanLines  = 5
)

var (
	emailRegex = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// North-American-style phone: optional country code, area code,
	// exchange, line number, flexible separators.
	phoneRegex = regexp.MustCompile(`(\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`)

	nameCharsRegex  = regexp.MustCompile(`^[A-Za-z .'-]+$`)
	nonDigitRegex   = regexp.MustCompile(`[^0-9]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	skillSplitRegex = regexp.MustCompile(`[,\n•·]`)

	nameExcludeTokens = []string{"resume", "cv", "curriculum vitae", "email", "phone", "address", "@"}

	// Section headers in priority order; the first header found wins.
	skillHeaders = []string{"skills", "technical skills", "technologies", "programming languages"}

	// Keyword order matters: "3 years" beats "experience" appearing
	// earlier in the text.
	experienceRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\d+\+?\s*years`),
		regexp.MustCompile(`(?i)\d+\+?\s*experience`),
		regexp.MustCompile(`(?i)\d+\+?\s*year`),
	}
)

// Extract runs the full rule cascade over the decoded resume text.
func Extract(text string) domain.ResumeFields {
	clean := normalizeWhitespace(text)
	lines := nonBlankLines(text)

	return domain.ResumeFields{
		Name:       extractName(lines),
		Email:      extractEmail(clean),
		Phone:      extractPhone(clean),
		Skills:     extractSkills(lines),
		Experience: extractExperience(clean),
		RawText:    truncate(text, maxRawTextChars),
		ParsedAt:   time.Now().UTC(),
	}
}

func normalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func extractEmail(clean string) string {
	return emailRegex.FindString(clean)
}

// extractPhone returns the first phone match normalized to digits only.
func extractPhone(clean string) string {
	match := phoneRegex.FindString(clean)
	if match == "" {
		return ""
	}
	return nonDigitRegex.ReplaceAllString(match, "")
}

// extractName scans the first lines of the document and accepts the
// first one that looks like a person's name rather than a heading.
func extractName(lines []string) string {
	limit := nameScanLines
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		if isNameLine(line) {
			return line
		}
	}
	return ""
}

func isNameLine(line string) bool {
	if len(line) <= 2 || len(line) >= 50 {
		return false
	}
	if line[0] >= '0' && line[0] <= '9' {
		return false
	}
	lower := strings.ToLower(line)
	for _, token := range nameExcludeTokens {
		if strings.Contains(lower, token) {
			return false
		}
	}
	return nameCharsRegex.MatchString(line)
}

// extractSkills searches the candidate headers in priority order. When
// the header line carries inline content the list is taken from that
// line alone; a bare header collects up to five following lines.
func extractSkills(lines []string) []string {
	for _, header := range skillHeaders {
		for i, line := range lines {
			rest, ok := matchHeader(line, header)
			if !ok {
				continue
			}
			content := rest
			if content == "" {
				stop := i + 1 + skillSpanLines
				if stop > len(lines) {
					stop = len(lines)
				}
				content = strings.Join(lines[i+1:stop], "\n")
			}
			return splitSkills(content)
		}
	}
	return nil
}

// matchHeader reports whether the line starts with the given section
// header and returns the remainder with colons stripped.
func matchHeader(line, header string) (string, bool) {
	lower := strings.ToLower(line)
	if !strings.HasPrefix(lower, header) {
		return "", false
	}
	rest := line[len(header):]
	rest = strings.TrimLeft(rest, ": \t")
	return strings.TrimSpace(rest), true
}

func splitSkills(content string) []string {
	var skills []string
	seen := make(map[string]bool)
	for _, token := range skillSplitRegex.Split(content, -1) {
		token = strings.TrimSpace(token)
		if len(token) <= 1 {
			continue
		}
		if seen[token] {
			continue
		}
		seen[token] = true
		skills = append(skills, token)
		if len(skills) == maxSkills {
			break
		}
	}
	return skills
}

// extractExperience matches a "<digits>+? <keyword>" pattern for each
// keyword in order; the first match wins.
func extractExperience(clean string) string {
	for _, re := range experienceRegexes {
		if match := re.FindString(clean); match != "" {
			return match
		}
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
