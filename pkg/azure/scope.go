package azure

import "strings"

// Scope identifies which remote collection an operation targets. Repository
// is only required for pull request operations; project-level operations
// leave it empty, organization-level operations leave both empty.
type Scope struct {
	Organization string
	Project      string
	Repository   string
}

func (s Scope) requireProject() error {
	if s.Project == "" {
		return validationError("project is required for this operation")
	}
	return nil
}

func (s Scope) requireRepository() error {
	if err := s.requireProject(); err != nil {
		return err
	}
	if s.Repository == "" {
		return validationError("repository is required for this operation")
	}
	return nil
}

// NormalizeRef qualifies a bare branch name with refs/heads/. Names that are
// already fully qualified pass through untouched, so the function is
// idempotent.
func NormalizeRef(branch string) string {
	if branch == "" || strings.HasPrefix(branch, "refs/") {
		return branch
	}
	return "refs/heads/" + branch
}

// ShortRef is the inverse presentation form: refs/heads/main becomes main.
func ShortRef(ref string) string {
	return strings.TrimPrefix(ref, "refs/heads/")
}
