package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amontoya/sliderace/game/board"
)

func writeRulesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "variant.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateRulesValidFile(t *testing.T) {
	path := writeRulesFile(t, `{
		"name": "classic",
		"description": "Classic 100-square race",
		"board_size": 100,
		"dice_faces": 6,
		"min_players": 2,
		"max_players": 6,
		"feature_count_min": 8,
		"feature_count_max": 12,
		"min_feature_gap": 10,
		"placement_attempts": 50
	}`)

	result := validateRules(path)
	assert.True(t, result.Valid, "errors: %v", result.Errors)
	assert.Equal(t, "variant.json", result.File)
}

func TestValidateRulesMissingFile(t *testing.T) {
	result := validateRules("/non/existent/variant.json")
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "Failed to read file")
}

func TestValidateRulesInvalidJSON(t *testing.T) {
	path := writeRulesFile(t, `{"name": "broken", not json}`)

	result := validateRules(path)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "Invalid JSON")
}

func TestValidateRulesBadDice(t *testing.T) {
	path := writeRulesFile(t, `{
		"name": "wild",
		"board_size": 100,
		"dice_faces": 200,
		"min_players": 2,
		"max_players": 6,
		"feature_count_min": 8,
		"feature_count_max": 12,
		"min_feature_gap": 10,
		"placement_attempts": 50
	}`)

	result := validateRules(path)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "dice faces")
}

func TestValidateRulesTrackTooShort(t *testing.T) {
	path := writeRulesFile(t, `{
		"name": "tiny",
		"board_size": 12,
		"dice_faces": 6,
		"min_players": 2,
		"max_players": 6,
		"feature_count_min": 8,
		"feature_count_max": 12,
		"min_feature_gap": 10,
		"placement_attempts": 50
	}`)

	result := validateRules(path)
	assert.False(t, result.Valid)
}

func TestValidateGeneration(t *testing.T) {
	result := validateGeneration(board.DefaultParams())
	assert.True(t, result.Valid, "errors: %v", result.Errors)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "Generation:")
}
