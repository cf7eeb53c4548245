package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subculture-collective/clipper-sub005/pkg/parser"
)

func TestCodesCommand_ListsWholeTaxonomy(t *testing.T) {
	out, _, err := execCommand(t, NewCodesCommand())
	require.NoError(t, err)

	for _, info := range parser.AllCodes() {
		assert.Contains(t, out, string(info.Code))
		assert.Contains(t, out, info.Name)
	}
}

func TestCodesCommand_ShowOne(t *testing.T) {
	out, _, err := execCommand(t, NewCodesCommand(), "QE003")
	require.NoError(t, err)

	assert.Contains(t, out, "INVALID_DATE_FORMAT")
	assert.Contains(t, out, "after:2025-13-45")
}

func TestCodesCommand_LowercaseLookup(t *testing.T) {
	out, _, err := execCommand(t, NewCodesCommand(), "qe010")
	require.NoError(t, err)

	assert.Contains(t, out, "INVALID_ENUM_VALUE")
}

func TestCodesCommand_NotFound(t *testing.T) {
	_, _, err := execCommand(t, NewCodesCommand(), "QE999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCodesCommand_JSON(t *testing.T) {
	withFormat(t, "json")

	out, _, err := execCommand(t, NewCodesCommand())
	require.NoError(t, err)

	var result struct {
		Codes []parser.CodeInfo `json:"codes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Codes, len(parser.AllCodes()))
}

func TestCodesCommand_TextList(t *testing.T) {
	withFormat(t, "text")

	out, _, err := execCommand(t, NewCodesCommand())
	require.NoError(t, err)

	assert.Contains(t, out, "Parse Error Codes")
	assert.Contains(t, out, "QE001")
	assert.Contains(t, out, "clipql codes <code>")
}
