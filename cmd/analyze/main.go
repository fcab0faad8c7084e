// Command analyze generates a batch of boards for one or more rules variants
// and prints placement statistics: how many descenders and ascenders actually
// fit, how hard the generator had to work, and how often placement was
// exhausted outright. Useful when tuning a variant's feature counts against
// its track size.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/amontoya/sliderace/game/board"
	"github.com/amontoya/sliderace/game/config"
)

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "measure board generation behavior for rules variants",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "rules-dir",
				Value: "rules",
				Usage: "directory holding rules variant files",
			},
			&cli.StringFlag{
				Name:  "rules",
				Usage: "analyze a single variant instead of every file in rules-dir",
			},
			&cli.IntFlag{
				Name:  "samples",
				Value: 1000,
				Usage: "boards to generate per variant",
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "random seed, 0 for time-based",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "analyze:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	samples := int(cmd.Int("samples"))
	seed := int64(cmd.Int("seed"))
	if samples < 1 {
		return fmt.Errorf("samples must be positive, got %d", samples)
	}

	manager, err := config.NewManager(cmd.String("rules-dir"))
	if err != nil {
		// No rules directory still lets the built-in defaults be analyzed.
		fmt.Printf("rules directory unavailable (%v), analyzing built-in defaults\n", err)
		return analyzeAndPrint("classic (built-in)", config.DefaultRules().BoardParams(), samples, seed)
	}

	if name := cmd.String("rules"); name != "" {
		rules, err := manager.Load(name)
		if err != nil {
			return err
		}
		return analyzeAndPrint(name, rules.BoardParams(), samples, seed)
	}

	infos, err := manager.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("no rules files found, analyzing built-in defaults")
		return analyzeAndPrint("classic (built-in)", config.DefaultRules().BoardParams(), samples, seed)
	}

	for _, info := range infos {
		rules, err := manager.Load(info.RulesID)
		if err != nil {
			fmt.Printf("skipping %s: %v\n", info.RulesID, err)
			continue
		}
		if err := analyzeAndPrint(info.RulesID, rules.BoardParams(), samples, seed); err != nil {
			return err
		}
	}
	return nil
}

// report accumulates placement statistics across a batch of generated boards.
type report struct {
	samples          int
	exhausted        int
	descendersPlaced int
	ascendersPlaced  int
	attemptsUsed     int
	longestSlide     int
	longestClimb     int
	slideTotal       int
	climbTotal       int
}

func (r *report) averageDescenders() float64 { return float64(r.descendersPlaced) / float64(r.samples) }
func (r *report) averageAscenders() float64  { return float64(r.ascendersPlaced) / float64(r.samples) }
func (r *report) averageAttempts() float64   { return float64(r.attemptsUsed) / float64(r.samples) }

func (r *report) averageSlide() float64 {
	if r.descendersPlaced == 0 {
		return 0
	}
	return float64(r.slideTotal) / float64(r.descendersPlaced)
}

func (r *report) averageClimb() float64 {
	if r.ascendersPlaced == 0 {
		return 0
	}
	return float64(r.climbTotal) / float64(r.ascendersPlaced)
}

// analyzeParams generates samples boards and aggregates their stats. Exhausted
// runs are counted, not fatal; invalid params are.
func analyzeParams(params board.Params, samples int, seed int64) (*report, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	gen := board.NewGenerator(params, seed)
	r := &report{samples: samples}

	for i := 0; i < samples; i++ {
		b, stats, err := gen.GenerateWithStats()
		if err != nil {
			if errors.Is(err, board.ErrPlacementExhausted) {
				r.exhausted++
			} else {
				return nil, err
			}
		}

		r.descendersPlaced += stats.DescendersPlaced
		r.ascendersPlaced += stats.AscendersPlaced
		r.attemptsUsed += stats.AttemptsUsed

		for _, f := range b.Descenders {
			length := f.From - f.To
			r.slideTotal += length
			if length > r.longestSlide {
				r.longestSlide = length
			}
		}
		for _, f := range b.Ascenders {
			length := f.To - f.From
			r.climbTotal += length
			if length > r.longestClimb {
				r.longestClimb = length
			}
		}
	}
	return r, nil
}

func analyzeAndPrint(name string, params board.Params, samples int, seed int64) error {
	fmt.Printf("\n=== %s ===\n", name)
	fmt.Printf("Track: %d squares, %d-%d features per kind, min gap %d\n",
		params.Size, params.FeatureCountMin, params.FeatureCountMax, params.MinGap)

	r, err := analyzeParams(params, samples, seed)
	if err != nil {
		return err
	}

	fmt.Printf("Samples: %d\n", r.samples)
	fmt.Printf("Descenders placed: %.2f avg (longest slide %d, avg %.1f)\n",
		r.averageDescenders(), r.longestSlide, r.averageSlide())
	fmt.Printf("Ascenders placed:  %.2f avg (longest climb %d, avg %.1f)\n",
		r.averageAscenders(), r.longestClimb, r.averageClimb())
	fmt.Printf("Placement attempts: %.1f avg per board\n", r.averageAttempts())

	if r.exhausted > 0 {
		fmt.Printf("WARNING: %d/%d boards came out with a feature kind fully exhausted\n", r.exhausted, r.samples)
		fmt.Println("         consider a longer track, a smaller min gap, or fewer features")
	} else {
		fmt.Println("No exhausted boards")
	}
	return nil
}
