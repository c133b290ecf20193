package repository_test

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	bookColumns = []string{
		"id", "name", "image_url", "year", "lang", "page_count", "shabak", "price", "discount",
		"detail", "number_in_stock", "authors", "is_published", "category_id", "is_removed",
		"created_at", "updated_at",
		"c_id", "c_name", "c_slug", "c_is_removed", "c_created_at", "c_updated_at",
	}
	lineColumns = append([]string{"o_id", "cart_id", "book_id", "order_price", "entity", "o_created_at", "o_updated_at"}, bookColumns...)
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	return db, mock
}

type bookFixture struct {
	id         uuid.UUID
	name       string
	price      string
	discount   int
	stock      int
	categoryID uuid.UUID
	published  bool
}

func (b bookFixture) values(now time.Time) []any {
	return []any{
		b.id.String(), b.name, "http://cdn.local/book.jpg", "2020", "en", 320, "978-0", b.price, b.discount,
		"a long enough detail", b.stock, "Frank Herbert", b.published, b.categoryID.String(), false,
		now, now,
		b.categoryID.String(), "Science Fiction", "sci-fi", false, now, now,
	}
}

func bookRows(now time.Time, books ...bookFixture) *sqlmock.Rows {
	rows := sqlmock.NewRows(bookColumns)
	for _, b := range books {
		rows.AddRow(toDriverValues(b.values(now))...)
	}

	return rows
}

func toDriverValues(values []any) []driver.Value {
	out := make([]driver.Value, len(values))
	for i, v := range values {
		out[i] = v
	}

	return out
}
