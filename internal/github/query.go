package github

import (
	"fmt"
	"strings"
	"time"
)

const queryDateLayout = "2006-01-02"

// MergedPRQuery builds the search query for pull requests merged inside
// the window, scoped to one repository. The merged qualifier is
// date-granular and inclusive on both ends.
func MergedPRQuery(repo string, from, to time.Time) string {
	return fmt.Sprintf("repo:%s is:pr is:merged merged:%s..%s",
		repo, from.Format(queryDateLayout), to.Format(queryDateLayout))
}

// NormalizeRepo reduces a repository reference to owner/name form,
// accepting the full GitHub URL form users tend to configure
func NormalizeRepo(ref string) (string, error) {
	trimmed := strings.TrimSpace(ref)
	trimmed = strings.TrimPrefix(trimmed, "https://github.com/")
	trimmed = strings.TrimSuffix(trimmed, ".git")
	trimmed = strings.Trim(trimmed, "/")

	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("repository %q is not in owner/name form", ref)
	}
	return parts[0] + "/" + parts[1], nil
}
