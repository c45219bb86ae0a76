package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"saas-action-bot/config"
	catalogPostgre "saas-action-bot/internal/catalog/repository/postgre"
	catalogQdrant "saas-action-bot/internal/catalog/repository/qdrant"
	catalogUC "saas-action-bot/internal/catalog/usecase"
	"saas-action-bot/internal/model"
	"saas-action-bot/pkg/database"
	"saas-action-bot/pkg/log"
	pkgQdrant "saas-action-bot/pkg/qdrant"
	"saas-action-bot/pkg/voyage"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/backfill-embeddings/main.go <tenant-id> [endpoints.json]")
		fmt.Println("Without a file every stored endpoint of the tenant is re-embedded.")
		fmt.Println("With a file (JSON array of endpoints) the entries are stored and embedded.")
		os.Exit(1)
	}
	tenantID := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := log.Init(log.ZapConfig{
		Level:        "info",
		Mode:         "development",
		ColorEnabled: true,
	})

	ctx := context.Background()

	db, err := database.Open(database.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN})
	if err != nil {
		logger.Fatalf(ctx, "Failed to open database: %v", err)
	}
	defer database.Close(db)
	if err := catalogPostgre.Migrate(db); err != nil {
		logger.Fatalf(ctx, "Failed to migrate endpoints: %v", err)
	}

	embedder, err := voyage.New(cfg.Voyage.APIKey)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize Voyage API: %v", err)
	}
	if cfg.Voyage.Model != "" {
		embedder = embedder.WithModel(cfg.Voyage.Model)
	}

	qdrantClient := pkgQdrant.NewClient(cfg.Qdrant.URL, pkgQdrant.WithAPIKey(cfg.Qdrant.APIKey))
	if err := qdrantClient.EnsureCollection(ctx, pkgQdrant.CreateCollectionRequest{
		Name:    cfg.Qdrant.CollectionName,
		Vectors: pkgQdrant.VectorConfig{Size: cfg.Qdrant.VectorSize, Distance: pkgQdrant.DistanceCosine},
	}, catalogQdrant.IndexedPayloadKeys()...); err != nil {
		logger.Fatalf(ctx, "Failed to prepare Qdrant collection: %v", err)
	}

	uc := catalogUC.New(logger, catalogPostgre.New(db), catalogQdrant.New(qdrantClient, embedder, cfg.Qdrant.CollectionName, logger))

	if len(os.Args) < 3 {
		n, err := uc.ReindexTenant(ctx, tenantID)
		if err != nil {
			logger.Errorf(ctx, "Reindex finished with errors: %v", err)
		}
		logger.Infof(ctx, "Backfill complete! %d endpoints re-embedded for tenant %s.", n, tenantID)
		return
	}

	endpoints, err := readEndpoints(os.Args[2], tenantID)
	if err != nil {
		logger.Fatalf(ctx, "Failed to load endpoints: %v", err)
	}
	logger.Infof(ctx, "Found %d endpoints to index for tenant %s", len(endpoints), tenantID)

	successCount := 0
	for i, ep := range endpoints {
		if err := uc.IndexEndpoint(ctx, ep); err != nil {
			logger.Errorf(ctx, "Failed to index endpoint %s: %v", ep.ID, err)
			continue
		}
		logger.Infof(ctx, "Indexed endpoint %d/%d: %s %s", i+1, len(endpoints), ep.Method, ep.Path)
		successCount++
	}

	logger.Infof(ctx, "Backfill complete! %d/%d endpoints indexed.", successCount, len(endpoints))
}

// readEndpoints loads a JSON array of endpoints and assigns them to tenantID.
func readEndpoints(path, tenantID string) ([]model.Endpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var endpoints []model.Endpoint
	if err := json.Unmarshal(data, &endpoints); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	for i := range endpoints {
		endpoints[i].TenantID = tenantID
	}
	return endpoints, nil
}
