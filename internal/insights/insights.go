// Package insights produces short natural-language advice about recent
// earnings and expenses using the Gemini API. The feature is strictly
// optional: without an API key or without data it returns canned guidance
// instead of an error, and nothing else in the application depends on it.
package insights

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/johnathamoeda-glitch/MotoDash/internal/domain"
)

// DefaultModelName is the Gemini model used for financial insights.
const DefaultModelName = "gemini-3-flash-preview"

// maxTransactions caps how much history goes into the prompt.
const maxTransactions = 20

// Generator builds prompts from transaction history and queries the model.
type Generator struct {
	apiKey string
	model  string
}

// NewGenerator creates a Generator. An empty apiKey is allowed; Generate
// then returns a configuration hint instead of calling the API.
func NewGenerator(apiKey string) *Generator {
	return &Generator{apiKey: apiKey, model: DefaultModelName}
}

// Generate summarizes the most recent transactions and asks the model for
// two or three practical suggestions, in Portuguese, aimed at a delivery
// driver. The transaction list is expected newest-first.
func (g *Generator) Generate(ctx context.Context, transactions []domain.Transaction) (string, error) {
	if g.apiKey == "" {
		return "Configure sua chave da API Gemini nas configurações para receber insights personalizados.", nil
	}
	if len(transactions) == 0 {
		return "Adicione algumas corridas e despesas para receber insights sobre seus ganhos.", nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("generate insights: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildPrompt(transactions)},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate insights: generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("generate insights: empty response from model")
	}
	return text, nil
}

// buildPrompt renders the recent history as compact lines the model can
// reason over without seeing raw JSON.
func buildPrompt(transactions []domain.Transaction) string {
	if len(transactions) > maxTransactions {
		transactions = transactions[:maxTransactions]
	}

	var b strings.Builder
	b.WriteString("Você é um consultor financeiro para motoristas de aplicativo no Brasil.\n")
	b.WriteString("Analise as transações recentes abaixo e dê 2 ou 3 sugestões práticas e curtas ")
	b.WriteString("para aumentar o lucro líquido. Responda em português, sem Markdown.\n\n")
	b.WriteString("Transações (mais recentes primeiro):\n")

	for _, tx := range transactions {
		if tx.IsEarning() {
			fmt.Fprintf(&b, "- %s ganho R$%.2f via %s", tx.Date, tx.Amount, tx.App)
			if tx.KMTraveled > 0 {
				fmt.Fprintf(&b, ", %.1f km", tx.KMTraveled)
			}
			if tx.HoursWorked > 0 {
				fmt.Fprintf(&b, ", %.1f h", tx.HoursWorked)
			}
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(&b, "- %s despesa R$%.2f em %s", tx.Date, tx.Amount, tx.Category)
		if tx.Description != "" {
			fmt.Fprintf(&b, " (%s)", tx.Description)
		}
		b.WriteString("\n")
	}

	return b.String()
}
