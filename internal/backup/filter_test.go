package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	patterns := []string{"tmp_*", "test"}

	assert.True(t, Matches("tmp_cache", patterns))
	assert.True(t, Matches("test", patterns))
	assert.False(t, Matches("testing", patterns), "glob must match the full name")
	assert.False(t, Matches("PROD", patterns), "matching is case-sensitive")
	assert.False(t, Matches("prod", patterns))
}

func TestMatchesQuestionMarkAndClass(t *testing.T) {
	assert.True(t, Matches("db1", []string{"db?"}))
	assert.False(t, Matches("db12", []string{"db?"}))
	assert.True(t, Matches("staging_a", []string{"staging_[ab]"}))
	assert.False(t, Matches("staging_c", []string{"staging_[ab]"}))
}

func TestMatchesIdempotent(t *testing.T) {
	patterns := []string{"tmp_*"}
	first := Matches("tmp_cache", patterns)
	second := Matches("tmp_cache", patterns)
	assert.Equal(t, first, second)
}

func TestMatchesEmptyPatterns(t *testing.T) {
	assert.False(t, Matches("anything", nil))
}
