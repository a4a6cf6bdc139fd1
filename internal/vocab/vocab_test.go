package vocab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsIndependentCopy(t *testing.T) {
	a := Default()
	b := Default()

	a.Skills[0] = "Changed"
	a.SkillAdjacency["react"] = nil

	assert.Equal(t, "Python", b.Skills[0])
	assert.NotEmpty(t, b.SkillAdjacency["react"])
}

func TestDefaultHasEnoughSoftSkillTemplates(t *testing.T) {
	v := Default()
	assert.GreaterOrEqual(t, len(v.Templates.SoftSkills), 3)
	assert.NotEmpty(t, v.Templates.Technical)
	assert.NotEmpty(t, v.Templates.Experience)
	assert.NotEmpty(t, v.Templates.JobSpecific)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	v, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), v)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	v, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Skills, v.Skills)
}

func TestLoadOverridesOnlyProvidedLists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	content := `
skills:
  - Go
  - Rust
skill_adjacency:
  go:
    - rust
templates:
  soft_skills:
    - template: "How do you give feedback?"
      rationale: "Assess communication"
phrases:
  alternative_skill: "comparable tools"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "Rust"}, v.Skills)
	assert.Equal(t, map[string][]string{"go": {"rust"}}, v.SkillAdjacency)
	require.Len(t, v.Templates.SoftSkills, 1)
	assert.Equal(t, "How do you give feedback?", v.Templates.SoftSkills[0].Text)
	assert.Equal(t, "comparable tools", v.Phrases.AlternativeSkill)

	// untouched lists keep their defaults
	assert.Equal(t, Default().Industries, v.Industries)
	assert.Equal(t, Default().Templates.Technical, v.Templates.Technical)
	assert.Equal(t, Default().Phrases.Company, v.Phrases.Company)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte("skills: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
