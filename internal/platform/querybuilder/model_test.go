package querybuilder

import (
	"reflect"
	"testing"
)

type testRow struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	Ignored string `db:"-"`
	NoTag   string
	hidden  int
}

func TestInsertModel(t *testing.T) {
	t.Parallel()

	sql, args, err := InsertModel("rows", testRow{ID: 7, Name: "seven", hidden: 1}, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		t.Fatalf("InsertModel error: %v", err)
	}

	want := "INSERT INTO rows (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING"
	if sql != want {
		t.Fatalf("unexpected sql:\nwant=%s\ngot=%s", want, sql)
	}
	if !reflect.DeepEqual(args, []any{int64(7), "seven"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestInsertModel_PointerModel(t *testing.T) {
	t.Parallel()

	sql, _, err := InsertModel("rows", &testRow{ID: 1, Name: "one"}, "")
	if err != nil {
		t.Fatalf("InsertModel error: %v", err)
	}
	if want := "INSERT INTO rows (id, name) VALUES ($1, $2)"; sql != want {
		t.Fatalf("unexpected sql: %s", sql)
	}
}

func TestInsertModel_NoColumns(t *testing.T) {
	t.Parallel()

	type bare struct{ A int }
	if _, _, err := InsertModel("rows", bare{A: 1}, ""); err == nil {
		t.Fatal("expected error for a model without db tags")
	}
}

func TestInsertModels(t *testing.T) {
	t.Parallel()

	rows := []testRow{
		{ID: 1, Name: "one"},
		{ID: 2, Name: "two"},
	}

	sql, args, err := InsertModels("rows", rows, "ON CONFLICT DO NOTHING")
	if err != nil {
		t.Fatalf("InsertModels error: %v", err)
	}

	want := "INSERT INTO rows (id, name) VALUES ($1, $2), ($3, $4) ON CONFLICT DO NOTHING"
	if sql != want {
		t.Fatalf("unexpected sql:\nwant=%s\ngot=%s", want, sql)
	}
	if !reflect.DeepEqual(args, []any{int64(1), "one", int64(2), "two"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestInsertModels_EmptySlice(t *testing.T) {
	t.Parallel()

	if _, _, err := InsertModels("rows", []testRow{}, ""); err == nil {
		t.Fatal("expected error for an empty slice")
	}
}

func TestInsertModels_NotASlice(t *testing.T) {
	t.Parallel()

	if _, _, err := InsertModels("rows", testRow{ID: 1, Name: "one"}, ""); err == nil {
		t.Fatal("expected error for a non-slice argument")
	}
}
