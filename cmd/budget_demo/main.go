// README: Command-line demo; drafts one budget from flags and prints it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"tripbudget/internal/ai"
	"tripbudget/internal/config"
	"tripbudget/internal/infra"
	"tripbudget/internal/modules/attachment"
	"tripbudget/internal/modules/budget"
)

func main() {
	var (
		destination = flag.String("destino", "Paris", "destination")
		adults      = flag.String("adultos", "2", "adult count")
		children    = flag.String("criancas", "0", "child count")
		services    = flag.String("tipos", "Aéreo,Hotel", "comma-separated services")
		notes       = flag.String("observacoes", "", "free-text notes")
		pdfPath     = flag.String("pdf", "", "path to a PDF to extract (switches to the pdf workflow)")
		model       = flag.String("modelo", budget.AutoModel, "model id or auto")
		dryRun      = flag.Bool("prompt-only", false, "print the prompt and exit")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := infra.NewLogger("warn", true)
	if err != nil {
		log.Fatal(err)
	}

	form := budget.FormData{
		Destination: *destination,
		Adults:      budget.FlexString(*adults),
		Children:    budget.FlexString(*children),
		Notes:       *notes,
	}
	for _, s := range strings.Split(*services, ",") {
		if s = strings.TrimSpace(s); s != "" {
			form.Services = append(form.Services, s)
		}
	}

	workflow := budget.WorkflowBudget
	if *pdfPath != "" {
		raw, err := os.ReadFile(*pdfPath)
		if err != nil {
			log.Fatalf("read pdf: %v", err)
		}
		form.PDFBase64 = encode(raw)
		workflow = budget.WorkflowPDF
	}

	if *dryRun {
		fmt.Println(budget.BuildPrompt(form))
		return
	}

	client := &http.Client{Timeout: cfg.AI.Timeout}
	gemini := ai.NewGeminiProvider(cfg.AI.Gemini.APIKey)
	defer gemini.Close()
	svc := budget.NewService(budget.ServiceDeps{
		Selector:  budget.NewSelector(cfg.Models, cfg.AI.Anthropic.Enabled()),
		Extractor: attachment.NewPDFExtractor(),
		Generator: ai.NewOrchestrator(logger,
			ai.NewOpenAIProvider(cfg.AI.OpenAI.APIKey, cfg.AI.OpenAI.BaseURL, client),
			ai.NewAnthropicProvider(cfg.AI.Anthropic.APIKey, cfg.AI.Anthropic.BaseURL, client),
			gemini,
		),
		Logger: logger,
	})

	draft, err := svc.Draft(context.Background(), "cli", budget.DraftRequest{
		Workflow:   workflow,
		Form:       form,
		Preference: budget.ModelPreference{Model: *model},
	})
	if err != nil {
		log.Fatalf("Error drafting budget: %v", err)
	}

	fmt.Printf("Model: %s\n\n%s\n", draft.Model, draft.Text)
}
