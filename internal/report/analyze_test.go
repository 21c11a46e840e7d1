package report

import (
	"testing"

	"runbox/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDuplicates(t *testing.T) {
	r := model.ScanReport{
		PathVar: "PATH",
		Dirs: []model.DirReport{
			{Path: "/usr/bin"},
			{Path: "/bin"},
			{Path: "/usr/bin/"},
			{Path: "/bin"},
		},
	}

	dups := FindDuplicates(r)

	require.Len(t, dups, 2)
	assert.Equal(t, 2, dups[0].Index)
	assert.Equal(t, 0, dups[0].DuplicateOf)
	assert.Equal(t, 3, dups[1].Index)
	assert.Equal(t, 1, dups[1].DuplicateOf)
	assert.Contains(t, dups[0].Remediation, "Entry 3 (/usr/bin/) duplicates entry 1")
}

func TestGenerateListsDuplicates(t *testing.T) {
	r := model.ScanReport{
		PathVar: "PATH",
		Policy:  model.PolicyExecutable,
		Dirs:    []model.DirReport{{Path: "/bin", Accepted: 1, Listed: 1}, {Path: "/bin", Listed: 1, Shadowed: []string{"sh"}}},
		Total:   1,
	}
	out := Generate(r, false)
	assert.Contains(t, out, "Diagnostics:")
	assert.Contains(t, out, "duplicates entry 1")
}

func TestNoDuplicates(t *testing.T) {
	assert.Empty(t, FindDuplicates(sampleReport()))
}
