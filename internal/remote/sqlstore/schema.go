package sqlstore

import (
	"fmt"
	"strings"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
)

type ColumnKind int

const (
	String ColumnKind = iota
	Text
	Bool
)

type Column struct {
	Name string
	Kind ColumnKind
}

// Table lists the columns of one collection besides id and created_at.
type Table struct {
	Name    string
	Columns []Column
	Indexes []string
}

type Schema map[string]Table

// DefaultSchema covers every storefront collection.
func DefaultSchema() Schema {
	tables := []Table{
		{
			Name: models.CollectionProducts,
			Columns: []Column{
				{"title", String}, {"description", Text}, {"price", String},
				{"image_url", Text}, {"image_public_id", String}, {"category", String},
			},
			Indexes: []string{"category"},
		},
		{
			Name:    models.CollectionTestimonials,
			Columns: []Column{{"name", String}, {"text", Text}, {"is_approved", Bool}},
			Indexes: []string{"is_approved"},
		},
		{
			Name:    models.CollectionComments,
			Columns: []Column{{"product_id", String}, {"user_id", String}, {"comment", Text}},
			Indexes: []string{"product_id"},
		},
		{
			Name:    models.CollectionMessages,
			Columns: []Column{{"name", String}, {"phone", String}, {"message", Text}},
		},
		{
			Name:    models.CollectionProfiles,
			Columns: []Column{{"email", String}, {"full_name", String}, {"password_hash", String}},
			Indexes: []string{"email"},
		},
		{
			Name:    models.CollectionUserRoles,
			Columns: []Column{{"user_id", String}, {"role", String}},
			Indexes: []string{"user_id"},
		},
	}
	s := Schema{}
	for _, t := range tables {
		s[t.Name] = t
	}
	return s
}

func (t Table) column(name string) (Column, bool) {
	switch name {
	case "id", "created_at":
		return Column{Name: name}, true
	}
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func (t Table) createStatement() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS `%s` (\n", t.Name)
	b.WriteString("        id BIGINT AUTO_INCREMENT PRIMARY KEY,\n")
	for _, c := range t.Columns {
		fmt.Fprintf(&b, "        `%s` %s,\n", c.Name, sqlType(c.Kind))
	}
	b.WriteString("        created_at TIMESTAMP(6) DEFAULT CURRENT_TIMESTAMP(6)")
	for _, idx := range t.Indexes {
		fmt.Fprintf(&b, ",\n        INDEX idx_%s_%s (`%s`)", t.Name, idx, idx)
	}
	b.WriteString("\n    )")
	return b.String()
}

func sqlType(k ColumnKind) string {
	switch k {
	case Text:
		return "TEXT"
	case Bool:
		return "BOOLEAN NOT NULL DEFAULT FALSE"
	}
	return "VARCHAR(255)"
}
