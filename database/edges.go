package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/klapom/AEGIS-Rag-sub009/helper"
	"github.com/klapom/AEGIS-Rag-sub009/model"
	loadSql "github.com/klapom/AEGIS-Rag-sub009/sql"
)

// EdgesDBHandlerFunctions defines the interface for Edges database operations.
type EdgesDBHandlerFunctions interface {
	InsertEdge(ctx context.Context, edge *model.Edge) error
	SelectEdgesBySection(ctx context.Context, sectionID int64) ([]*model.Edge, error)
	SelectEdgesByChunk(ctx context.Context, chunkID string) ([]*model.Edge, error)
	CountEdgesByDocument(ctx context.Context, docKey string, edgeType *model.EdgeType) (int64, error)
	DeleteEdgesByDocument(ctx context.Context, documentID int64) error
}

// EdgesDBHandler handles provenance edge database operations
type EdgesDBHandler struct {
	db *helper.Database
}

// NewEdgesDBHandler creates a new edges database handler.
// It initializes the database connection and loads edge-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewEdgesDBHandler(db *helper.Database, force bool) (*EdgesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	edgesDbHandler := &EdgesDBHandler{
		db: db,
	}

	err := loadSql.LoadEdgesSql(edgesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load edges sql", err)
	}

	err = edgesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized EdgesDBHandler")

	return edgesDbHandler, nil
}

// CreateTable creates the 'edges' table in the database.
// If the table already exists, it does not create it again.
// It also creates the edge type enum and all necessary indexes.
func (h *EdgesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_edges();`)
	if err != nil {
		log.Panicf("error initializing edges table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table edges")

	return nil
}

// InsertEdge inserts a new edge
func (h *EdgesDBHandler) InsertEdge(ctx context.Context, edge *model.Edge) error {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM insert_edge($1, $2, $3, $4, $5)`,
		edge.DocumentID,
		edge.EdgeType,
		edge.SectionID,
		edge.ChunkID,
		edge.EntityID,
	)

	err := row.Scan(
		&edge.ID,
		&edge.DocumentID,
		&edge.EdgeType,
		&edge.SectionID,
		&edge.ChunkID,
		&edge.EntityID,
		&edge.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectEdgesBySection retrieves all edges originating from a section node
func (h *EdgesDBHandler) SelectEdgesBySection(ctx context.Context, sectionID int64) ([]*model.Edge, error) {
	return h.selectEdges(ctx, `SELECT * FROM select_edges_by_section($1)`, sectionID)
}

// SelectEdgesByChunk retrieves all edges pointing at a chunk
func (h *EdgesDBHandler) SelectEdgesByChunk(ctx context.Context, chunkID string) ([]*model.Edge, error) {
	return h.selectEdges(ctx, `SELECT * FROM select_edges_by_chunk($1)`, chunkID)
}

// CountEdgesByDocument counts a document's edges, optionally filtered by type.
func (h *EdgesDBHandler) CountEdgesByDocument(ctx context.Context, docKey string, edgeType *model.EdgeType) (int64, error) {
	var count int64
	err := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT count_edges_by_document($1, $2)`,
		docKey,
		edgeType,
	).Scan(&count)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}
	return count, nil
}

// DeleteEdgesByDocument removes all edges of a document
func (h *EdgesDBHandler) DeleteEdgesByDocument(ctx context.Context, documentID int64) error {
	_, err := h.db.Instance.ExecContext(
		ctx,
		`SELECT delete_edges_by_document($1)`,
		documentID,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

func (h *EdgesDBHandler) selectEdges(ctx context.Context, query string, arg interface{}) ([]*model.Edge, error) {
	rows, err := h.db.Instance.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var edges []*model.Edge
	for rows.Next() {
		edge := &model.Edge{}
		err := rows.Scan(
			&edge.ID,
			&edge.DocumentID,
			&edge.EdgeType,
			&edge.SectionID,
			&edge.ChunkID,
			&edge.EntityID,
			&edge.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		edges = append(edges, edge)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return edges, nil
}
