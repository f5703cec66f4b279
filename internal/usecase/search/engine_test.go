package search

import (
	"fmt"
	"testing"

	"github.com/kailas-cloud/libsearch/internal/domain/book"
	"github.com/kailas-cloud/libsearch/internal/domain/catalog"
	"github.com/kailas-cloud/libsearch/internal/domain/category"
)

func table(records ...book.Record) *catalog.Table {
	return catalog.New(records, category.Default(), catalog.Meta{})
}

// rowA is a software book, rowB an engineering one.
var (
	rowA = book.Record{Title: "Python para Dados", Author: "Ana", Subject: "programação"}
	rowB = book.Record{Title: "Cálculo Estrutural", Author: "Bruno", Subject: "engenharia civil"}
)

func titles(records []book.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Title
	}
	return out
}

func TestFind_AccentInsensitive(t *testing.T) {
	tbl := table(rowA, rowB)

	got, total := Find(tbl, "calculo", category.Any, 100)
	if total != 1 || len(got) != 1 || got[0].Title != rowB.Title {
		t.Fatalf("expected only row B, got %v (total %d)", titles(got), total)
	}

	got, total = Find(tbl, "PROGRAMAÇÃO", category.Any, 100)
	if total != 1 || got[0].Title != rowA.Title {
		t.Fatalf("expected only row A, got %v (total %d)", titles(got), total)
	}
}

func TestFind_CategoryFilter(t *testing.T) {
	tbl := table(rowA, rowB)

	got, total := Find(tbl, "", category.Software, 100)
	if total != 1 || got[0].Title != rowA.Title {
		t.Fatalf("expected row A, got %v", titles(got))
	}

	got, total = Find(tbl, "python", category.Engineering, 100)
	if total != 0 || len(got) != 0 {
		t.Fatalf("expected no matches, got %v", titles(got))
	}
}

func TestFind_EmptyQueryReturnsPrefix(t *testing.T) {
	records := make([]book.Record, 10)
	for i := range records {
		records[i] = book.Record{Title: fmt.Sprintf("Livro %02d", i)}
	}
	tbl := table(records...)

	got, total := Find(tbl, "", category.Any, 4)
	if total != 10 {
		t.Errorf("expected total 10, got %d", total)
	}
	want := []string{"Livro 00", "Livro 01", "Livro 02", "Livro 03"}
	if fmt.Sprint(titles(got)) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, titles(got))
	}
}

func TestFind_QueryNormalizingToEmptyReturnsPrefix(t *testing.T) {
	tbl := table(rowA, rowB)

	got, total := Find(tbl, "数据库", category.Any, 100)
	if total != 2 || len(got) != 2 {
		t.Fatalf("expected the whole table, got %v (total %d)", titles(got), total)
	}
}

func TestFind_SpacesAreMatchedLiterally(t *testing.T) {
	tbl := table(rowA, rowB)

	if got, total := Find(tbl, "   ", category.Any, 100); total != 0 {
		t.Errorf("whitespace query must run a substring match, got %v", titles(got))
	}
	if got, total := Find(tbl, " python", category.Any, 100); total != 0 {
		t.Errorf("leading space must not match a field start, got %v", titles(got))
	}
	if got, total := Find(tbl, " dados", category.Any, 100); total != 1 || got[0].Title != rowA.Title {
		t.Errorf("expected row A for a mid-text match, got %v (total %d)", titles(got), total)
	}
}

func TestFind_TruncatesAndReportsTotal(t *testing.T) {
	records := make([]book.Record, 150)
	for i := range records {
		records[i] = book.Record{Title: fmt.Sprintf("Algoritmos volume %d", i)}
	}
	tbl := table(records...)

	got, total := Find(tbl, "algoritmos", category.Any, 100)
	if total != 150 {
		t.Errorf("expected total 150, got %d", total)
	}
	if len(got) != 100 {
		t.Fatalf("expected 100 returned, got %d", len(got))
	}
	for i, r := range got {
		if want := fmt.Sprintf("Algoritmos volume %d", i); r.Title != want {
			t.Fatalf("result %d: expected %q, got %q", i, want, r.Title)
		}
	}
}

func TestFind_NonPositiveCapUsesDefault(t *testing.T) {
	records := make([]book.Record, 120)
	for i := range records {
		records[i] = book.Record{Title: "x"}
	}
	got, total := Find(table(records...), "", category.Any, 0)
	if len(got) != defaultMaxResults || total != 120 {
		t.Errorf("expected %d/120, got %d/%d", defaultMaxResults, len(got), total)
	}
}

func TestFind_MatchesAcrossFieldBoundary(t *testing.T) {
	tbl := table(book.Record{Title: "Redes", Author: "Tanenbaum"})
	if _, total := Find(tbl, "redes tanenbaum", category.Any, 10); total != 1 {
		t.Error("expected match on space-joined fields")
	}
	if _, total := Find(tbl, "redestanenbaum", category.Any, 10); total != 0 {
		t.Error("fields must be separated by a space")
	}
}

func TestFind_PublisherAndYearNotSearched(t *testing.T) {
	tbl := table(book.Record{Title: "Qualquer", Publisher: "Editora Saraiva", Year: 1999})
	if _, total := Find(tbl, "saraiva", category.Any, 10); total != 0 {
		t.Error("publisher must not be searched")
	}
	if _, total := Find(tbl, "1999", category.Any, 10); total != 0 {
		t.Error("year must not be searched")
	}
}

func TestFind_EmptyTable(t *testing.T) {
	got, total := Find(nil, "anything", category.Any, 10)
	if got != nil || total != 0 {
		t.Errorf("expected empty result, got %v/%d", got, total)
	}
	got, total = Find(table(), "", category.Any, 10)
	if len(got) != 0 || total != 0 {
		t.Errorf("expected empty result, got %v/%d", got, total)
	}
}

func TestFind_FilteringIsMonotonic(t *testing.T) {
	tbl := table(
		rowA, rowB,
		book.Record{Title: "Linux para Dados"},
		book.Record{Title: "Dados Abertos e Política"},
	)
	_, all := Find(tbl, "dados", category.Any, 100)
	sum := 0
	for _, l := range category.Labels() {
		_, n := Find(tbl, "dados", l, 100)
		if n > all {
			t.Errorf("%s: filtered total %d exceeds unfiltered %d", l, n, all)
		}
		sum += n
	}
	if sum != all {
		t.Errorf("per-category totals %d must add up to %d", sum, all)
	}
}
