package main

import (
	"context"
	"fmt"
	"log"

	aegisrag "github.com/klapom/AEGIS-Rag-sub009"
	"github.com/klapom/AEGIS-Rag-sub009/helper"
	"github.com/klapom/AEGIS-Rag-sub009/model"
)

func sampleBlocks() []model.Block {
	return []model.Block{
		{Type: model.BlockTitle, Text: "Heat Pump Service Manual", PageNo: 1},
		{Type: model.BlockBody, Text: "This manual describes installation, operation and maintenance of the HP-2000 heat pump series.", PageNo: 1},
		{Type: model.BlockSubtitle1, Text: "Installation", PageNo: 2},
		{Type: model.BlockBody, Text: "Mount the outdoor unit on a level concrete pad. Keep at least 30 cm clearance on all sides for airflow. Connect the refrigerant lines before wiring the control cable.", PageNo: 2},
		{Type: model.BlockSubtitle1, Text: "Operation", PageNo: 3},
		{Type: model.BlockBody, Text: "The controller switches between heating and cooling automatically. Setpoints can be adjusted on the front panel or over Modbus.", PageNo: 3},
		{Type: model.BlockSubtitle1, Text: "Maintenance", PageNo: 4},
		{Type: model.BlockBody, Text: "Clean the air filters monthly. Check refrigerant pressure once a year and inspect the condensate drain for blockage.", PageNo: 4},
	}
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
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

	// Set up the default embedder (all-MiniLM-L6-v2, 384 dimensions)
	if err := indexer.UseDefaultEmbedder(); err != nil {
		log.Fatalf("Failed to set up embedder: %v", err)
	}

	doc := &model.Document{
		Key:    "hp2000-manual",
		Title:  "Heat Pump Service Manual",
		Source: "hp2000_manual.pdf",
		Metadata: map[string]interface{}{
			"language": "en",
			"series":   "HP-2000",
		},
	}

	fmt.Println("Ingesting document...")
	report, err := indexer.IngestDocument(context.Background(), doc, sampleBlocks(), model.DefaultChunkerConfig())
	if err != nil {
		log.Fatalf("Failed to ingest document: %v", err)
	}
	fmt.Printf("Document inserted with ID: %s\n", doc.RID)
	fmt.Printf("Created %d chunks, indexed %d\n", report.ChunksCreated, report.ChunksIndexed)
	fmt.Printf("Graph links created: %d\n", report.GraphLinksCreated)

	// Perform a simple vector search
	queryText := "How often should the filters be cleaned?"
	fmt.Printf("\nQuerying: %s\n", queryText)

	config := model.DefaultQueryConfig()
	config.TopK = 3
	config.DocumentKeys = []string{doc.Key}

	results, err := indexer.Search(context.Background(), queryText, &config)
	if err != nil {
		log.Fatalf("Failed to search: %v", err)
	}

	fmt.Printf("\nFound %d results:\n", len(results))
	for i, result := range results {
		fmt.Printf("\n--- Result %d ---\n", i+1)
		fmt.Printf("Score: %.4f\n", result.Score)
		fmt.Printf("Section: %s\n", result.Chunk.PrimarySection)
		fmt.Printf("Content: %s\n", result.Chunk.Content)
		fmt.Printf("Method: %s\n", result.RetrievalMethod)
	}

	// Show the document outline from the provenance graph
	entries, err := indexer.Outline(context.Background(), doc.Key)
	if err != nil {
		log.Fatalf("Failed to read outline: %v", err)
	}
	fmt.Println("\nDocument outline:")
	for _, entry := range entries {
		fmt.Printf("  %s -> chunks %v\n", entry.Section.Heading, entry.ChunkIDs)
	}

	fmt.Println("\nBasic example completed successfully!")
}
