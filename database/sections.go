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

// SectionsDBHandlerFunctions defines the interface for Sections database operations.
type SectionsDBHandlerFunctions interface {
	InsertSection(ctx context.Context, section *model.Section) error
	SelectSectionsByDocument(ctx context.Context, docKey string) ([]*model.Section, error)
	DeleteSectionsByDocument(ctx context.Context, documentID int64) error
}

// SectionsDBHandler handles section-node database operations. Section nodes
// carry only the structural fields (heading, level, page, bbox, order,
// token count); the section body text lives in the chunk payload alone.
type SectionsDBHandler struct {
	db *helper.Database
}

// NewSectionsDBHandler creates a new sections database handler.
// It initializes the database connection and loads section-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewSectionsDBHandler(db *helper.Database, force bool) (*SectionsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	sectionsDbHandler := &SectionsDBHandler{
		db: db,
	}

	err := loadSql.LoadSectionsSql(sectionsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load sections sql", err)
	}

	err = sectionsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized SectionsDBHandler")

	return sectionsDbHandler, nil
}

// CreateTable creates the 'sections' table in the database.
// If the table already exists, it does not create it again.
func (h *SectionsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_sections();`)
	if err != nil {
		log.Panicf("error initializing sections table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table sections")

	return nil
}

// InsertSection inserts a section node. DocumentID and Order must be set by
// the caller; ID and CreatedAt are filled from the inserted row.
func (h *SectionsDBHandler) InsertSection(ctx context.Context, section *model.Section) error {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM insert_section($1, $2, $3, $4, $5, $6, $7)`,
		section.DocumentID,
		section.Heading,
		section.Level,
		section.PageNo,
		section.BBox,
		section.Order,
		section.TokenCount,
	)

	err := row.Scan(
		&section.ID,
		&section.DocumentID,
		&section.Heading,
		&section.Level,
		&section.PageNo,
		&section.BBox,
		&section.Order,
		&section.TokenCount,
		&section.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectSectionsByDocument retrieves a document's section nodes in document
// order. The Text field is always empty on returned sections.
func (h *SectionsDBHandler) SelectSectionsByDocument(ctx context.Context, docKey string) ([]*model.Section, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_sections_by_document($1)`,
		docKey,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var sections []*model.Section
	for rows.Next() {
		section := &model.Section{}
		err := rows.Scan(
			&section.ID,
			&section.DocumentID,
			&section.Heading,
			&section.Level,
			&section.PageNo,
			&section.BBox,
			&section.Order,
			&section.TokenCount,
			&section.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		sections = append(sections, section)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return sections, nil
}

// DeleteSectionsByDocument removes all section nodes of a document; their
// edges cascade.
func (h *SectionsDBHandler) DeleteSectionsByDocument(ctx context.Context, documentID int64) error {
	_, err := h.db.Instance.ExecContext(
		ctx,
		`SELECT delete_sections_by_document($1)`,
		documentID,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
