package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/libsearch/internal/domain"
	"github.com/kailas-cloud/libsearch/internal/domain/book"
	"github.com/kailas-cloud/libsearch/internal/domain/catalog"
	"github.com/kailas-cloud/libsearch/internal/domain/recommendation"
)

type mockReader struct {
	table *catalog.Table
	err   error
}

func (m *mockReader) Current(context.Context) (*catalog.Table, error) {
	return m.table, m.err
}

type mockGenerator struct {
	text   string
	err    error
	prompt string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (domain.GenerationResult, error) {
	m.prompt = prompt
	if m.err != nil {
		return domain.GenerationResult{}, m.err
	}
	return domain.GenerationResult{Text: m.text, TotalTokens: 42}, nil
}

func testTable() *catalog.Table {
	return catalog.New([]book.Record{
		{Title: "Cálculo I", Author: "Stewart", Subject: "Matemática", Subtitle: "Limites"},
		{Title: "Redes", Author: "Tanenbaum", Subject: "Computação"},
		{Title: "Direito Civil", Author: "Tartuce", Subject: "Direito"},
	}, nil, catalog.Meta{})
}

func TestAdvisor_NotConfigured(t *testing.T) {
	a := NewAdvisor(&mockReader{table: testTable()}, nil, 0)
	_, err := a.Recommend(context.Background(), "redes", 3)
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestAdvisor_ParsesJSON(t *testing.T) {
	gen := &mockGenerator{text: "Claro!\n```json\n" +
		`{"recommendations":[{"title":"Redes","author":"Tanenbaum","subject":"Computação","justification":"Clássico"},` +
		`{"title":"Cálculo I","author":"Stewart","subject":"Matemática","justification":"Base"}]}` +
		"\n```"}
	a := NewAdvisor(&mockReader{table: testTable()}, gen, 2)

	got, err := a.Recommend(context.Background(), "redes de computadores", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(got))
	}
	if got[0].Title != "Redes" || got[0].Author != "Tanenbaum" || got[0].Justification != "Clássico" {
		t.Errorf("unexpected first suggestion: %+v", got[0])
	}
	if got[0].Kind != recommendation.KindAIBook {
		t.Errorf("expected kind %s, got %s", recommendation.KindAIBook, got[0].Kind)
	}

	for _, want := range []string{
		`Baseado no tópico "redes de computadores", recomende 5 livros da biblioteca.`,
		"Primeiros 2 livros da biblioteca:",
		"Cálculo I | Stewart | Matemática | Limites",
		"Redes | Tanenbaum | Computação | ",
		"Tópico solicitado: redes de computadores",
	} {
		if !strings.Contains(gen.prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(gen.prompt, "Direito Civil") {
		t.Error("prompt must list only the configured number of books")
	}
}

func TestAdvisor_TruncatesToCount(t *testing.T) {
	gen := &mockGenerator{text: `{"recommendations":[{"title":"A"},{"title":"B"},{"title":"C"}]}`}
	a := NewAdvisor(&mockReader{table: testTable()}, gen, 0)

	got, err := a.Recommend(context.Background(), "x", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 suggestions, got %d", len(got))
	}
}

func TestAdvisor_Errors(t *testing.T) {
	t.Run("catalog", func(t *testing.T) {
		a := NewAdvisor(&mockReader{err: domain.ErrDataUnavailable}, &mockGenerator{}, 0)
		if _, err := a.Recommend(context.Background(), "x", 1); !errors.Is(err, domain.ErrDataUnavailable) {
			t.Errorf("expected ErrDataUnavailable, got %v", err)
		}
	})
	t.Run("generator", func(t *testing.T) {
		a := NewAdvisor(&mockReader{table: testTable()}, &mockGenerator{err: domain.ErrTokenBudgetExceeded}, 0)
		if _, err := a.Recommend(context.Background(), "x", 1); !errors.Is(err, domain.ErrTokenBudgetExceeded) {
			t.Errorf("expected ErrTokenBudgetExceeded, got %v", err)
		}
	})
}

func TestBooksContext_CountsRecordsListed(t *testing.T) {
	got := booksContext(testTable(), 50)
	if !strings.HasPrefix(got, "Primeiros 3 livros da biblioteca:\n") {
		t.Errorf("context must state the number of records listed, got %q", got)
	}
}

func TestBooksContext_EmptyCatalog(t *testing.T) {
	if got := booksContext(nil, 50); got != "Nenhum dado de livro disponível" {
		t.Errorf("unexpected context: %q", got)
	}
}

func TestParseSuggestions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []suggestion
	}{
		{
			name: "json object",
			text: `{"recommendations":[{"title":"A","author":"B","subject":"C","justification":"D"}]}`,
			want: []suggestion{{Title: "A", Author: "B", Subject: "C", Justification: "D"}},
		},
		{
			name: "json without recommendations",
			text: `{"other":1}`,
			want: nil,
		},
		{
			name: "line fallback",
			text: "1. Título: Redes\n   Autor: Tanenbaum\n   Assunto: Computação\n   Justificativa: Clássico\n\n" +
				"- **Title:** Cálculo\n- **Author:** Stewart",
			want: []suggestion{
				{Title: "Redes", Author: "Tanenbaum", Subject: "Computação", Justification: "Clássico"},
				{Title: "Cálculo", Author: "Stewart"},
			},
		},
		{
			name: "broken json falls back",
			text: "{ Título: Redes }",
			want: []suggestion{{Title: "Redes }"}},
		},
		{
			name: "fields before any title are ignored",
			text: "Autor: Ninguém\nTítulo: Só",
			want: []suggestion{{Title: "Só"}},
		},
		{
			name: "nothing recognizable",
			text: "sem resposta",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseSuggestions(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d suggestions, got %d: %+v", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("suggestion %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}
