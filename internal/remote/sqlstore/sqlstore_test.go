package sqlstore

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote"
)

func products(t *testing.T) Table {
	t.Helper()
	tbl, ok := DefaultSchema()[models.CollectionProducts]
	require.True(t, ok)
	return tbl
}

func TestBuildSelectDefaultsToNewestFirst(t *testing.T) {
	query, args, err := buildSelect(products(t), remote.Query{}.Eq("category", "minimal").WithLimit(4))
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, created_at, `title`, `description`, `price`, `image_url`, `image_public_id`, `category` FROM `products`"+
			" WHERE `category` = ? ORDER BY `created_at` DESC, id DESC LIMIT ?",
		query)
	assert.Equal(t, []any{"minimal", 4}, args)
}

func TestBuildSelectRejectsUnknownFields(t *testing.T) {
	_, _, err := buildSelect(products(t), remote.Query{}.Eq("title; DROP TABLE products", "x"))
	var verr *models.ValidationError
	assert.True(t, errors.As(err, &verr))

	_, _, err = buildSelect(products(t), remote.Query{}.OrderBy("nope", false))
	assert.Error(t, err)
}

func TestBuildInsertUsesSchemaOrder(t *testing.T) {
	query, args, err := buildInsert(products(t), remote.Document{"category": "modern", "title": "Dusk", "price": "1"})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `products` (`title`, `price`, `category`) VALUES (?, ?, ?)", query)
	assert.Equal(t, []any{"Dusk", "1", "modern"}, args)
}

func TestBuildUpdateAppendsID(t *testing.T) {
	tbl := DefaultSchema()[models.CollectionTestimonials]
	query, args, err := buildUpdate(tbl, "7", remote.Document{"is_approved": true})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE `testimonials` SET `is_approved` = ? WHERE id = ?", query)
	assert.Equal(t, []any{true, "7"}, args)

	_, _, err = buildUpdate(tbl, "7", remote.Document{"bogus": 1})
	assert.Error(t, err)
}

func TestCreateStatementDeclaresColumnsAndIndexes(t *testing.T) {
	stmt := DefaultSchema()[models.CollectionComments].createStatement()
	assert.True(t, strings.HasPrefix(stmt, "CREATE TABLE IF NOT EXISTS `comments`"))
	assert.Contains(t, stmt, "`comment` TEXT")
	assert.Contains(t, stmt, "INDEX idx_comments_product_id (`product_id`)")
	assert.Contains(t, stmt, "created_at TIMESTAMP(6)")
}
