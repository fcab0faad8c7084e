package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/amontoya/sliderace/game/engine"
)

// FilePersistence stores each game as one indented JSON file named after the
// game ID. The board's feature index is rebuilt on load by the board codec.
type FilePersistence struct {
	gamesDir string
}

// NewFilePersistence creates the games directory if needed.
func NewFilePersistence(gamesDir string) (*FilePersistence, error) {
	if err := os.MkdirAll(gamesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create games directory: %w", err)
	}
	return &FilePersistence{gamesDir: gamesDir}, nil
}

func (fp *FilePersistence) Save(g *engine.Game) error {
	if g == nil {
		return errors.New("game cannot be nil")
	}

	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	if err := os.WriteFile(fp.filePath(g.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write game file: %w", err)
	}
	return nil
}

func (fp *FilePersistence) Load(id uuid.UUID) (*engine.Game, error) {
	data, err := os.ReadFile(fp.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to read game file: %w", err)
	}

	var g engine.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}
	return &g, nil
}

func (fp *FilePersistence) Delete(id uuid.UUID) error {
	if !fp.Exists(id) {
		return ErrGameNotFound
	}
	if err := os.Remove(fp.filePath(id)); err != nil {
		return fmt.Errorf("failed to remove game file: %w", err)
	}
	return nil
}

func (fp *FilePersistence) ListAll() ([]uuid.UUID, error) {
	entries, err := os.ReadDir(fp.gamesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read games directory: %w", err)
	}

	var ids []uuid.UUID
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id, err := uuid.Parse(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (fp *FilePersistence) Exists(id uuid.UUID) bool {
	_, err := os.Stat(fp.filePath(id))
	return err == nil
}

func (fp *FilePersistence) filePath(id uuid.UUID) string {
	return filepath.Join(fp.gamesDir, id.String()+".json")
}
