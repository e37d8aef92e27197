package insights

import (
	"context"
	"strings"
	"testing"

	"github.com/johnathamoeda-glitch/MotoDash/internal/domain"
)

func TestGenerateWithoutAPIKey(t *testing.T) {
	g := NewGenerator("")
	out, err := g.Generate(context.Background(), []domain.Transaction{
		{ID: "t1", Type: domain.TypeEarning, Date: "2025-03-01", Amount: 100, App: domain.PlatformUber},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(out, "chave da API") {
		t.Errorf("expected configuration hint, got %q", out)
	}
}

func TestGenerateWithoutTransactions(t *testing.T) {
	g := NewGenerator("fake-key")
	out, err := g.Generate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(out, "Adicione") {
		t.Errorf("expected empty-history hint, got %q", out)
	}
}

func TestBuildPromptFormatsHistory(t *testing.T) {
	prompt := buildPrompt([]domain.Transaction{
		{ID: "t1", Type: domain.TypeEarning, Date: "2025-03-02", Amount: 150.5, App: domain.Platform99, KMTraveled: 80, HoursWorked: 6},
		{ID: "t2", Type: domain.TypeExpense, Date: "2025-03-01", Amount: 60, Category: domain.CategoryFuel, Description: "Posto Shell"},
	})

	for _, want := range []string{
		"2025-03-02 ganho R$150.50 via 99",
		"80.0 km",
		"6.0 h",
		"2025-03-01 despesa R$60.00 em Combustível",
		"(Posto Shell)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptCapsHistory(t *testing.T) {
	txs := make([]domain.Transaction, 30)
	for i := range txs {
		txs[i] = domain.Transaction{ID: "t", Type: domain.TypeEarning, Date: "2025-03-01", Amount: 10, App: domain.PlatformUber}
	}
	prompt := buildPrompt(txs)
	if got := strings.Count(prompt, "- 2025-03-01"); got != maxTransactions {
		t.Errorf("expected %d history lines, got %d", maxTransactions, got)
	}
}
