package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	driveFileID   = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)
	mobilePattern = regexp.MustCompile(`^01[0-9]{9}$`)
)

// SplitLines turns a textarea value into its non-blank trimmed lines.
func SplitLines(s string) []string {
	return splitNonEmpty(strings.Split(s, "\n"))
}

// SplitCSV turns "Flutter, Dart" into ["Flutter", "Dart"].
func SplitCSV(s string) []string {
	return splitNonEmpty(strings.Split(s, ","))
}

func splitNonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// UniqueIDs drops blanks and repeats, keeping first appearance order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// NormalizeImageURL rewrites Google Drive share links to their direct-view form.
// Other URLs pass through unchanged.
func NormalizeImageURL(url string) string {
	url = strings.TrimSpace(url)
	if strings.Contains(url, "uc?export=view") {
		return url
	}
	if m := driveFileID.FindStringSubmatch(url); m != nil {
		return "https://drive.google.com/uc?export=view&id=" + m[1]
	}
	return url
}

// NormalizeImageURLs normalizes each line and drops blanks.
func NormalizeImageURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = NormalizeImageURL(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// ValidMobile reports whether s is a Bangladeshi mobile number in local form, e.g. 01712345678.
func ValidMobile(s string) bool {
	return mobilePattern.MatchString(s)
}

// InternationalMobile converts a local mobile number to E.164.
func InternationalMobile(s string) (string, error) {
	if !ValidMobile(s) {
		return "", fmt.Errorf("mobile %q is not in 01XXXXXXXXX form", s)
	}
	return "+880" + s[1:], nil
}
