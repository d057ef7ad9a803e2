// Package sqlstore implements remote.Store on MySQL (or TiDB). Each
// collection is a table with an AUTO_INCREMENT id; ids are exposed as
// decimal strings.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote"
)

type Store struct {
	db     *sql.DB
	schema Schema
}

func New(db *sql.DB, schema Schema) *Store {
	return &Store{db: db, schema: schema}
}

// Open connects with dsn, forcing parseTime so created_at scans as time.Time.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// EnsureTables creates the necessary tables if they don't exist.
func (s *Store) EnsureTables(ctx context.Context) error {
	for _, t := range s.schema {
		if _, err := s.db.ExecContext(ctx, t.createStatement()); err != nil {
			return fmt.Errorf("create table %s: %w", t.Name, err)
		}
	}
	return nil
}

// List selects the rows matching q.
func (s *Store) List(ctx context.Context, collection string, q remote.Query) ([]remote.Document, error) {
	t, err := s.table(collection)
	if err != nil {
		return nil, err
	}
	query, args, err := buildSelect(t, q)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, remote.Transport("list "+collection, err)
	}
	defer rows.Close()

	out := make([]remote.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(t, rows)
		if err != nil {
			return nil, remote.Transport("list "+collection, err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, remote.Transport("list "+collection, err)
	}
	return out, nil
}

// Get returns one row by id.
func (s *Store) Get(ctx context.Context, collection, id string) (remote.Document, error) {
	docs, err := s.List(ctx, collection, remote.Query{}.Eq(remote.FieldID, id).WithLimit(1))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, remote.NotFound(collection, id)
	}
	return docs[0], nil
}

// Insert adds a row and reads it back.
func (s *Store) Insert(ctx context.Context, collection string, fields remote.Document) (remote.Document, error) {
	t, err := s.table(collection)
	if err != nil {
		return nil, err
	}
	query, args, err := buildInsert(t, remote.StripReserved(fields))
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, remote.Transport("insert "+collection, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, remote.Transport("insert "+collection, err)
	}
	return s.Get(ctx, collection, strconv.FormatInt(id, 10))
}

// Update sets the patched columns and reads the row back. MySQL reports zero
// affected rows for no-op updates, so existence is decided by the read.
func (s *Store) Update(ctx context.Context, collection, id string, patch remote.Document) (remote.Document, error) {
	t, err := s.table(collection)
	if err != nil {
		return nil, err
	}
	patch = remote.StripReserved(patch)
	if len(patch) > 0 {
		query, args, err := buildUpdate(t, id, patch)
		if err != nil {
			return nil, err
		}
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return nil, remote.Transport("update "+collection, err)
		}
	}
	return s.Get(ctx, collection, id)
}

// Delete removes one row by id.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	t, err := s.table(collection)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM `%s` WHERE id = ?", t.Name), id)
	if err != nil {
		return remote.Transport("delete "+collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return remote.Transport("delete "+collection, err)
	}
	if n == 0 {
		return remote.NotFound(collection, id)
	}
	return nil
}

func (s *Store) table(collection string) (Table, error) {
	t, ok := s.schema[collection]
	if !ok {
		return Table{}, fmt.Errorf("sqlstore: unknown collection %q", collection)
	}
	return t, nil
}

// --- query building ---

func selectColumns(t Table) string {
	cols := []string{"id", "created_at"}
	for _, c := range t.Columns {
		cols = append(cols, "`"+c.Name+"`")
	}
	return strings.Join(cols, ", ")
}

func buildSelect(t Table, q remote.Query) (string, []any, error) {
	var b strings.Builder
	var args []any
	fmt.Fprintf(&b, "SELECT %s FROM `%s`", selectColumns(t), t.Name)

	for i, f := range q.Where {
		if _, ok := t.column(f.Field); !ok {
			return "", nil, unknownField(t, f.Field)
		}
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		fmt.Fprintf(&b, "`%s` = ?", f.Field)
		args = append(args, f.Value)
	}

	order := q.Ordering()
	if _, ok := t.column(order.Field); !ok {
		return "", nil, unknownField(t, order.Field)
	}
	dir := "ASC"
	if order.Descending {
		dir = "DESC"
	}
	fmt.Fprintf(&b, " ORDER BY `%s` %s, id %s", order.Field, dir, dir)

	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}
	return b.String(), args, nil
}

func buildInsert(t Table, fields remote.Document) (string, []any, error) {
	names, args, err := assignments(t, fields)
	if err != nil {
		return "", nil, err
	}
	if len(names) == 0 {
		return fmt.Sprintf("INSERT INTO `%s` () VALUES ()", t.Name), nil, nil
	}
	quoted := make([]string, len(names))
	marks := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "`" + n + "`"
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO `%s` (%s) VALUES (%s)", t.Name, strings.Join(quoted, ", "), strings.Join(marks, ", ")), args, nil
}

func buildUpdate(t Table, id string, patch remote.Document) (string, []any, error) {
	names, args, err := assignments(t, patch)
	if err != nil {
		return "", nil, err
	}
	sets := make([]string, len(names))
	for i, n := range names {
		sets[i] = "`" + n + "` = ?"
	}
	args = append(args, id)
	return fmt.Sprintf("UPDATE `%s` SET %s WHERE id = ?", t.Name, strings.Join(sets, ", ")), args, nil
}

// assignments returns the writable columns of fields in schema order.
func assignments(t Table, fields remote.Document) ([]string, []any, error) {
	for name := range fields {
		if c, ok := t.column(name); !ok || c.Name == "id" || c.Name == "created_at" {
			return nil, nil, unknownField(t, name)
		}
	}
	var names []string
	var args []any
	for _, c := range t.Columns {
		if v, ok := fields[c.Name]; ok {
			names = append(names, c.Name)
			args = append(args, v)
		}
	}
	return names, args, nil
}

func unknownField(t Table, name string) error {
	return &models.ValidationError{Field: name, Message: fmt.Sprintf("%s has no field %q", t.Name, name)}
}

func scanDocument(t Table, rows *sql.Rows) (remote.Document, error) {
	var id int64
	var created sql.NullTime
	holders := []any{&id, &created}
	for _, c := range t.Columns {
		if c.Kind == Bool {
			holders = append(holders, new(sql.NullBool))
		} else {
			holders = append(holders, new(sql.NullString))
		}
	}
	if err := rows.Scan(holders...); err != nil {
		return nil, err
	}

	doc := remote.Document{remote.FieldID: strconv.FormatInt(id, 10)}
	if created.Valid {
		doc[remote.FieldCreatedAt] = created.Time.UTC()
	}
	for i, c := range t.Columns {
		switch h := holders[i+2].(type) {
		case *sql.NullBool:
			doc[c.Name] = h.Valid && h.Bool
		case *sql.NullString:
			doc[c.Name] = h.String
		default:
			return nil, errors.New("sqlstore: unexpected holder")
		}
	}
	return doc, nil
}
