package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/wolfman30/symptom-advisor/cmd/mainconfig"
	"github.com/wolfman30/symptom-advisor/internal/app/bootstrap"
	appconfig "github.com/wolfman30/symptom-advisor/internal/config"
	"github.com/wolfman30/symptom-advisor/internal/knowledge"
	"github.com/wolfman30/symptom-advisor/pkg/logging"
)

// SeedFile is the curated knowledge base loaded by this tool.
type SeedFile struct {
	Symptoms []SeedSymptom `json:"symptoms"`
}

type SeedSymptom struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Synonyms    []string      `json:"synonyms"`
	Severity    string        `json:"severity"`
	Category    string        `json:"category"`
	Products    []SeedProduct `json:"products"`
}

type SeedProduct struct {
	ProductID int64  `json:"product_id"`
	Relevance int    `json:"relevance"`
	Note      string `json:"note"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: seed-knowledge <seed-file.json>")
		fmt.Println("Example: seed-knowledge testdata/knowledge-seed.json")
		os.Exit(1)
	}
	mainconfig.LoadEnv()
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		logger.Error("failed to read seed file", "error", err)
		os.Exit(1)
	}
	file, err := parseSeedFile(data)
	if err != nil {
		logger.Error("invalid seed file", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool := bootstrap.ConnectPostgresPool(ctx, cfg.DatabaseURL, logger)
	if pool == nil {
		logger.Error("seed-knowledge requires a reachable DATABASE_URL")
		os.Exit(1)
	}
	defer pool.Close()

	symptoms, relations, err := seed(ctx, knowledge.NewPostgresStore(pool), file)
	if err != nil {
		logger.Error("seeding failed", "error", err, "symptoms", symptoms, "relations", relations)
		os.Exit(1)
	}
	logger.Info("knowledge base seeded", "symptoms", symptoms, "relations", relations)
}

func parseSeedFile(data []byte) (SeedFile, error) {
	var file SeedFile
	if err := json.Unmarshal(data, &file); err != nil {
		return SeedFile{}, fmt.Errorf("parse seed file: %w", err)
	}
	for i, s := range file.Symptoms {
		if strings.TrimSpace(s.Name) == "" {
			return SeedFile{}, fmt.Errorf("symptom %d has no name", i)
		}
		for _, p := range s.Products {
			if p.ProductID <= 0 {
				return SeedFile{}, fmt.Errorf("symptom %q: product id must be positive", s.Name)
			}
		}
	}
	return file, nil
}

// seed upserts every symptom and relation. Re-running a file is safe.
func seed(ctx context.Context, store knowledge.Store, file SeedFile) (int, int, error) {
	var symptoms, relations int
	for _, s := range file.Symptoms {
		id, err := store.SaveSymptom(ctx, knowledge.Symptom{
			Name:        strings.TrimSpace(s.Name),
			Description: s.Description,
			Synonyms:    s.Synonyms,
			Severity:    s.Severity,
			Category:    s.Category,
		})
		if err != nil {
			return symptoms, relations, fmt.Errorf("save symptom %q: %w", s.Name, err)
		}
		symptoms++
		for _, p := range s.Products {
			if err := store.RelateProductToSymptom(ctx, id, p.ProductID, p.Relevance, p.Note); err != nil {
				return symptoms, relations, fmt.Errorf("relate %q to product %d: %w", s.Name, p.ProductID, err)
			}
			relations++
		}
	}
	return symptoms, relations, nil
}
