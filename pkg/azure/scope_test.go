package azure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRef(t *testing.T) {
	assert.Equal(t, "refs/heads/main", NormalizeRef("main"))
	assert.Equal(t, "refs/heads/feature/login", NormalizeRef("feature/login"))
	assert.Equal(t, "refs/heads/main", NormalizeRef("refs/heads/main"))
	assert.Equal(t, "refs/tags/v1.0", NormalizeRef("refs/tags/v1.0"))
	assert.Equal(t, "", NormalizeRef(""))
}

func TestNormalizeRefIdempotent(t *testing.T) {
	for _, branch := range []string{"main", "refs/heads/main", "feature/x", ""} {
		once := NormalizeRef(branch)
		assert.Equal(t, once, NormalizeRef(once), "normalizing twice must equal normalizing once for %q", branch)
	}
}

func TestShortRef(t *testing.T) {
	assert.Equal(t, "main", ShortRef("refs/heads/main"))
	assert.Equal(t, "main", ShortRef("main"))
}

func TestScopeRequirements(t *testing.T) {
	full := Scope{Organization: "org", Project: "proj", Repository: "repo"}
	assert.NoError(t, full.requireProject())
	assert.NoError(t, full.requireRepository())

	noRepo := Scope{Organization: "org", Project: "proj"}
	assert.NoError(t, noRepo.requireProject())
	err := noRepo.requireRepository()
	assert.Equal(t, KindValidation, KindOf(err))

	empty := Scope{Organization: "org"}
	assert.Equal(t, KindValidation, KindOf(empty.requireProject()))
	assert.Equal(t, KindValidation, KindOf(empty.requireRepository()))
}
