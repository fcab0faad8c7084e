// Command validate checks every rules variant JSON file in a directory. It
// verifies:
//   - JSON structure and field types
//   - Board size against the feature gap so generation cannot deadlock
//   - Dice faces (at least 2, smaller than the track)
//   - Player count bounds
//   - That the variant can actually produce a board, by generating one
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/amontoya/sliderace/game/board"
	"github.com/amontoya/sliderace/game/config"
)

// ValidationResult captures the outcome of validating a single file. When
// Valid is true Errors holds informational lines, otherwise the failures.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateRules loads and validates a single rules JSON file. Structural
// checks come from config.Rules.Validate; on top of that it runs one real
// generation to prove the variant yields a playable board.
func validateRules(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var rules config.Rules
	if err := json.Unmarshal(data, &rules); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := rules.Validate(); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	}

	// A structurally valid variant can still be cramped enough that feature
	// placement collapses. Generate one board to find out.
	if result.Valid {
		generated := validateGeneration(rules.BoardParams())
		if !generated.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, generated.Errors...)
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", rules.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Track: %d squares", rules.BoardSize))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Dice: d%d", rules.DiceFaces))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Players: %d-%d", rules.MinPlayers, rules.MaxPlayers))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Features: %d-%d per kind, min gap %d",
			rules.FeatureCountMin, rules.FeatureCountMax, rules.MinFeatureGap))
	}

	return result
}

// validateGeneration generates one board from the given parameters and checks
// the result is playable: every feature endpoint inside (1, size), descenders
// pointing down, ascenders pointing up, and placement not fully exhausted.
func validateGeneration(params board.Params) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []string{}}

	gen := board.NewGenerator(params, 0)
	b, stats, err := gen.GenerateWithStats()
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Generation failure: %v", err))
		return result
	}

	inBounds := func(sq int) bool { return sq > 1 && sq < params.Size }

	for _, f := range b.Descenders {
		if !inBounds(f.From) || !inBounds(f.To) {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Descender %d->%d leaves the track", f.From, f.To))
		}
		if f.To >= f.From {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Descender %d->%d does not go down", f.From, f.To))
		}
	}
	for _, f := range b.Ascenders {
		if !inBounds(f.From) || !inBounds(f.To) {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Ascender %d->%d leaves the track", f.From, f.To))
		}
		if f.To <= f.From {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Ascender %d->%d does not go up", f.From, f.To))
		}
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Generation: %d/%d descenders, %d/%d ascenders placed",
			stats.DescendersPlaced, stats.DescendersRequested,
			stats.AscendersPlaced, stats.AscendersRequested))
	}

	return result
}

// main scans the rules directory (first argument, default "rules") for *.json
// files, validates each, and exits non-zero if any is invalid.
func main() {
	rulesDir := "rules"
	if len(os.Args) > 1 {
		rulesDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(rulesDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding rules files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No rules files found in %s\n", rulesDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateRules(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("INVALID")
			allValid = false
			for _, e := range result.Errors {
				if !strings.HasPrefix(e, "✓") {
					fmt.Println("  - " + e)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("All rules files are valid")
	} else {
		fmt.Println("Some rules files have errors")
		os.Exit(1)
	}
}
