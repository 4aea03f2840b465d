package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fakturo/internal/core/entity"
	"fakturo/internal/core/id"
)

type mockCatalog struct {
	entity.BaseCatalog
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

type mockDocument struct {
	entity.BaseDocument
	Title string `db:"title" json:"title"`
}

func TestExtractDBColumns_EmbeddedFields(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expectedCols := []string{"id", "deletion_mark", "version", "code", "name"}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
}

func TestExtractDBColumns_DocumentAuditFields(t *testing.T) {
	cols := ExtractDBColumns[mockDocument]()

	expectedCols := []string{
		"id", "deletion_mark", "version",
		"created_at", "updated_at", "created_by", "updated_by",
		"title",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
}

func TestStructToMap_EmbeddedFields(t *testing.T) {
	cat := mockCatalog{
		BaseCatalog: entity.BaseCatalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				Version:      5,
			},
		},
		Code: "TEST",
		Name: "Test Name",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "TEST", m["code"])
	assert.Equal(t, "Test Name", m["name"])
}

func TestStructToMap_DocumentAuditFields(t *testing.T) {
	now := time.Now().UTC()
	doc := mockDocument{
		BaseDocument: entity.BaseDocument{
			BaseEntity: entity.NewBaseEntity(),
			CreatedAt:  now,
			UpdatedAt:  now,
			CreatedBy:  "user-1",
			UpdatedBy:  "user-2",
		},
		Title: "March services",
	}

	m := StructToMap(doc)

	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, "user-1", m["created_by"])
	assert.Equal(t, "user-2", m["updated_by"])
	assert.Equal(t, "March services", m["title"])
}
