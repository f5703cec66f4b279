package recommend

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/libsearch/internal/domain"
	"github.com/kailas-cloud/libsearch/internal/domain/catalog"
	"github.com/kailas-cloud/libsearch/internal/domain/recommendation"
	"github.com/kailas-cloud/libsearch/internal/logger"
)

// DefaultContextBooks is how many catalog records the prompt lists.
const DefaultContextBooks = 50

// Advisor asks a generative model to pick catalog books for a topic.
type Advisor struct {
	catalog      CatalogReader
	generator    domain.Generator
	contextBooks int
}

// NewAdvisor creates an advisor. A nil generator makes every call fail with ErrNotConfigured.
func NewAdvisor(catalog CatalogReader, generator domain.Generator, contextBooks int) *Advisor {
	if contextBooks <= 0 {
		contextBooks = DefaultContextBooks
	}
	return &Advisor{catalog: catalog, generator: generator, contextBooks: contextBooks}
}

// Recommend returns up to count model-suggested books for topic.
func (a *Advisor) Recommend(ctx context.Context, topic string, count int) ([]recommendation.Resource, error) {
	if a.generator == nil {
		return nil, fmt.Errorf("generative recommendations: %w", domain.ErrNotConfigured)
	}
	if count <= 0 {
		count = recommendation.DefaultCount
	}
	topic = strings.TrimSpace(topic)

	tbl, err := a.catalog.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	res, err := a.generator.Generate(ctx, buildPrompt(topic, count, booksContext(tbl, a.contextBooks)))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	picks := parseSuggestions(res.Text)
	logger.FromContext(ctx).Debug("Model suggestions parsed",
		zap.String("topic", topic),
		zap.Int("suggestions", len(picks)),
		zap.Int("tokens", res.TotalTokens),
	)

	out := make([]recommendation.Resource, 0, len(picks))
	for _, p := range picks {
		if p.Title == "" {
			continue
		}
		out = append(out, recommendation.Resource{
			Title:         p.Title,
			Author:        p.Author,
			Subject:       p.Subject,
			Kind:          recommendation.KindAIBook,
			Justification: p.Justification,
			Source:        "Biblioteca Local",
		})
	}
	if len(out) > count {
		out = out[:count]
	}
	return out, nil
}

func booksContext(tbl *catalog.Table, n int) string {
	head := tbl.Head(n)
	if len(head) == 0 {
		return "Nenhum dado de livro disponível"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Primeiros %d livros da biblioteca:\n", len(head))
	sb.WriteString("titulo | autor | assunto | sub_titulo\n")
	for i := range head {
		b := &head[i]
		fmt.Fprintf(&sb, "%s | %s | %s | %s\n", b.Title, b.Author, b.Subject, b.Subtitle)
	}
	return sb.String()
}

func buildPrompt(topic string, count int, books string) string {
	return fmt.Sprintf(`Você é um especialista em bibliotecas e recomendações de livros.

Baseado no tópico "%[1]s", recomende %[2]d livros da biblioteca.

Dados dos livros disponíveis:
%[3]s

Instruções:
1. Analise o tópico solicitado
2. Identifique livros relevantes da biblioteca
3. Retorne apenas os livros mais apropriados
4. Para cada livro, forneça:
   - Título
   - Autor
   - Assunto
   - Justificativa da recomendação

Formato da resposta (JSON):
{
    "recommendations": [
        {
            "title": "Título do Livro",
            "author": "Nome do Autor",
            "subject": "Assunto",
            "justification": "Por que este livro é recomendado para o tópico"
        }
    ]
}

Tópico solicitado: %[1]s
`, topic, count, books)
}
