package main

import (
	"context"
	"fmt"
	"log"

	aegisrag "github.com/klapom/AEGIS-Rag-sub009"
	"github.com/klapom/AEGIS-Rag-sub009/helper"
	"github.com/klapom/AEGIS-Rag-sub009/model"
)

func manualBlocks() []model.Block {
	return []model.Block{
		{Type: model.BlockTitle, Text: "Router Administration Guide", PageNo: 1},
		{Type: model.BlockBody, Text: "This guide covers the administration of the R-500 router family.", PageNo: 1},
		{Type: model.BlockSubtitle1, Text: "Firewall Configuration", PageNo: 2},
		{Type: model.BlockBody, Text: "Rules are evaluated top to bottom. Place the most specific rules first and end the chain with an explicit deny.", PageNo: 2},
		{Type: model.BlockSubtitle1, Text: "Firmware Updates", PageNo: 3},
		{Type: model.BlockBody, Text: "Download the signed firmware image and verify the checksum before flashing. The router reboots twice during the update.", PageNo: 3},
		{Type: model.BlockSubtitle1, Text: "Troubleshooting", PageNo: 4},
		{Type: model.BlockBody, Text: "If the device does not respond, hold the reset button for ten seconds to restore factory settings.", PageNo: 4},
	}
}

func printResults(label string, results []*model.RetrievalResult) {
	fmt.Printf("\n%s:\n", label)
	for i, result := range results {
		fmt.Printf("  %d. [%.4f] %s (similarity %.4f, boost %.4f, %s)\n",
			i+1, result.Score, result.Chunk.PrimarySection,
			result.SimilarityScore, result.HeadingBoost, result.RetrievalMethod)
	}
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	indexer, err := aegisrag.NewIndexer(dbConfig, 384)
	if err != nil {
		log.Fatalf("Failed to create indexer: %v", err)
	}
	defer indexer.Close()

	if err := indexer.UseDefaultEmbedder(); err != nil {
		log.Fatalf("Failed to set up embedder: %v", err)
	}

	doc := &model.Document{
		Key:      "r500-admin-guide",
		Title:    "Router Administration Guide",
		Source:   "r500_admin.pdf",
		Metadata: map[string]interface{}{"language": "en"},
	}

	report, err := indexer.IngestDocument(context.Background(), doc, manualBlocks(), model.DefaultChunkerConfig())
	if err != nil {
		log.Fatalf("Failed to ingest document: %v", err)
	}
	fmt.Printf("Ingested %d chunks\n", report.ChunksIndexed)

	// A query that names a section heading benefits from the heading boost
	queryText := "firewall configuration rule order"
	fmt.Printf("Querying: %s\n", queryText)

	config := model.DefaultQueryConfig()
	config.TopK = 5
	config.DocumentKeys = []string{doc.Key}

	plain, err := indexer.Search(context.Background(), queryText, &config)
	if err != nil {
		log.Fatalf("Failed to search: %v", err)
	}
	printResults("Vector search only", plain)

	boosted, err := indexer.SearchWithRerank(context.Background(), queryText, &config)
	if err != nil {
		log.Fatalf("Failed to search with rerank: %v", err)
	}
	printResults("With heading boost", boosted)

	fmt.Println("\nRerank example completed successfully!")
}
