// README: Budget module tests (selector decision table, prompt layout, workflow branches).
package budget

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tripbudget/internal/ai"
	"tripbudget/internal/config"
)

func TestSelectAuto(t *testing.T) {
	catalog := config.DefaultModelCatalog()
	tests := []struct {
		name   string
		form   FormData
		vision bool
		want   ModelPreference
	}{
		{
			name: "no attachment",
			form: FormData{Destination: "Paris"},
			want: ModelPreference{Model: "gpt-4o-mini", Fallback: []string{"gpt-4o"}},
		},
		{
			name:   "no attachment, vision available",
			form:   FormData{},
			vision: true,
			want:   ModelPreference{Model: "gpt-4o-mini", Fallback: []string{"gpt-4o"}},
		},
		{
			name:   "pdf with vision",
			form:   FormData{PDFBase64: "JVBERi0="},
			vision: true,
			want:   ModelPreference{Model: "claude-3-5-sonnet-20240620", Fallback: []string{"gpt-4o"}},
		},
		{
			name: "image without vision",
			form: FormData{ImageBase64: "iVBOR"},
			want: ModelPreference{Model: "gpt-4o", Fallback: []string{"gpt-4o-mini"}},
		},
		{
			name: "generic file without vision",
			form: FormData{FileBase64: "AAAA"},
			want: ModelPreference{Model: "gpt-4o", Fallback: []string{"gpt-4o-mini"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, requested := range []string{"auto", "AUTO", ""} {
				got := NewSelector(catalog, tt.vision).Select(tt.form, ModelPreference{Model: requested, Fallback: []string{"ignored"}})
				if diff := cmp.Diff(tt.want, got); diff != "" {
					t.Fatalf("Select(%q) (-want +got):\n%s", requested, diff)
				}
				if !tt.vision && ai.ParseModel(got.Model).Provider == ai.ProviderAnthropic {
					t.Fatalf("selected an anthropic model without the credential: %q", got.Model)
				}
			}
		})
	}
}

func TestSelectExplicit(t *testing.T) {
	s := NewSelector(config.DefaultModelCatalog(), false)
	tests := []struct {
		name string
		pref ModelPreference
		want ModelPreference
	}{
		{
			name: "verbatim with fallback",
			pref: ModelPreference{Model: "Claude-3-Opus", Fallback: []string{"gpt-4o", "gpt-4o-mini"}},
			want: ModelPreference{Model: "Claude-3-Opus", Fallback: []string{"gpt-4o", "gpt-4o-mini"}},
		},
		{
			name: "default fallback",
			pref: ModelPreference{Model: "gpt-4o-mini"},
			want: ModelPreference{Model: "gpt-4o-mini", Fallback: []string{"gpt-4o"}},
		},
		{
			name: "bare gemini resolves to catalog model",
			pref: ModelPreference{Model: "Gemini", Fallback: []string{"gemini:", "gpt-4o"}},
			want: ModelPreference{Model: "gemini-2.0-flash", Fallback: []string{"gemini-2.0-flash", "gpt-4o"}},
		},
		{
			name: "explicit gemini model kept",
			pref: ModelPreference{Model: "gemini:gemini-1.5-pro"},
			want: ModelPreference{Model: "gemini:gemini-1.5-pro", Fallback: []string{"gpt-4o"}},
		},
		{
			name: "explicit empty fallback kept",
			pref: ModelPreference{Model: "gpt-4o", Fallback: []string{}},
			want: ModelPreference{Model: "gpt-4o", Fallback: []string{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Select(FormData{PDFBase64: "x"}, tt.pref)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Select (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectDoesNotAliasInput(t *testing.T) {
	fallback := []string{"gpt-4o"}
	got := NewSelector(config.DefaultModelCatalog(), false).Select(FormData{}, ModelPreference{Model: "gpt-4o-mini", Fallback: fallback})
	got.Fallback[0] = "changed"
	if fallback[0] != "gpt-4o" {
		t.Fatal("selector result shares the caller's fallback slice")
	}
}

func TestBuildPromptFull(t *testing.T) {
	prompt := BuildPrompt(FormData{
		Destination: "Paris",
		Adults:      "2",
		Children:    "1",
		Services:    FlexList{"Aéreo", "Hotel"},
		Notes:       "Lua de mel",
		PastedText:  "Voo LATAM 8084",
	})
	for _, want := range []string{
		"Destino: Paris",
		"Passageiros: 2 adulto(s) e 1 criança(s)",
		"Serviços: Aéreo, Hotel",
		"Observações:\nLua de mel",
		"Texto adicional:\nVoo LATAM 8084",
		"[INSTRUÇÕES DE FORMATAÇÃO]",
		"Não invente preços",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.HasPrefix(prompt, promptHeader+"\n\n") || !strings.HasSuffix(prompt, "\n\n"+promptClosing) {
		t.Fatalf("unexpected prompt frame:\n%s", prompt)
	}
	if strings.Index(prompt, "Destino:") > strings.Index(prompt, "Passageiros:") {
		t.Fatal("destination should come before passengers")
	}
}

func TestBuildPromptOmitsBlankFields(t *testing.T) {
	prompt := BuildPrompt(FormData{Destination: "   ", Services: FlexList{" "}})
	for _, absent := range []string{"Destino:", "Serviços:", "Observações:", "Texto adicional:"} {
		if strings.Contains(prompt, absent) {
			t.Errorf("prompt should not contain %q", absent)
		}
	}
	if !strings.Contains(prompt, "Passageiros: 2 adulto(s) e 0 criança(s)") {
		t.Fatalf("expected defaulted passenger line, got:\n%s", prompt)
	}
	if strings.Contains(prompt, "\n\n\n") {
		t.Fatal("prompt contains an empty block")
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	form := FormData{Destination: "Lisboa", Notes: "x"}
	if BuildPrompt(form) != BuildPrompt(form) {
		t.Fatal("prompt is not deterministic")
	}
}

func TestFormDataJSON(t *testing.T) {
	var form FormData
	body := `{"destino":"Roma","adultos":3,"criancas":"1","tipos":"Cruzeiro","pdfBase64":null}`
	if err := json.Unmarshal([]byte(body), &form); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := FormData{Destination: "Roma", Adults: "3", Children: "1", Services: FlexList{"Cruzeiro"}}
	if diff := cmp.Diff(want, form); diff != "" {
		t.Fatalf("form (-want +got):\n%s", diff)
	}
}

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) ExtractText(context.Context, string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeGenerator struct {
	req    ai.GenerationRequest
	result ai.GenerationResult
	err    error
	calls  int
}

func (f *fakeGenerator) Generate(_ context.Context, req ai.GenerationRequest) (ai.GenerationResult, error) {
	f.calls++
	f.req = req
	return f.result, f.err
}

type fakeUsage struct {
	workflow string
	attempts []ai.Attempt
}

func (f *fakeUsage) RecordAttempts(_ context.Context, _ string, workflow string, attempts []ai.Attempt) {
	f.workflow = workflow
	f.attempts = attempts
}

func newTestService(x *fakeExtractor, g *fakeGenerator, u *fakeUsage) *Service {
	deps := ServiceDeps{
		Selector:  NewSelector(config.DefaultModelCatalog(), false),
		Extractor: x,
		Generator: g,
	}
	if u != nil {
		deps.Usage = u
	}
	return NewService(deps)
}

func TestDraftBudgetWorkflow(t *testing.T) {
	x := &fakeExtractor{}
	g := &fakeGenerator{result: ai.GenerationResult{
		Text:     "*Orçamento Paris*",
		Model:    "gpt-4o-mini",
		Attempts: []ai.Attempt{{Model: "gpt-4o-mini", Provider: ai.ProviderOpenAI}},
	}}
	u := &fakeUsage{}

	draft, err := newTestService(x, g, u).Draft(context.Background(), "req-1", DraftRequest{
		Form:       FormData{Destination: "Paris", PDFBase64: "ignored outside pdf workflow"},
		Preference: ModelPreference{Model: "auto"},
	})
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if draft.Text != "*Orçamento Paris*" || draft.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected draft %+v", draft)
	}
	if x.calls != 0 {
		t.Fatal("extractor must not run in the budget workflow")
	}
	// A PDF still counts as an attachment for selection.
	if g.req.Model != "gpt-4o" {
		t.Fatalf("expected flagship for attachment, got %q", g.req.Model)
	}
	if u.workflow != WorkflowBudget || len(u.attempts) != 1 {
		t.Fatalf("usage not recorded: %+v", u)
	}
}

func TestDraftPDFWorkflowAppendsText(t *testing.T) {
	x := &fakeExtractor{text: "Hotel Ibis 3 noites"}
	g := &fakeGenerator{result: ai.GenerationResult{Text: "ok", Model: "gpt-4o"}}

	_, err := newTestService(x, g, nil).Draft(context.Background(), "req-2", DraftRequest{
		Workflow: "PDF",
		Form:     FormData{Notes: "Cliente VIP", PDFBase64: "JVBERi0="},
	})
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if !strings.Contains(g.req.Prompt, "Observações:\nCliente VIP\n\n"+PDFMarker+"\nHotel Ibis 3 noites") {
		t.Fatalf("pdf text not appended to notes:\n%s", g.req.Prompt)
	}
}

func TestDraftPDFWorkflowWithoutPDFDraftsFromForm(t *testing.T) {
	x := &fakeExtractor{}
	g := &fakeGenerator{result: ai.GenerationResult{Text: "*Orçamento Paris*", Model: "gpt-4o"}}
	u := &fakeUsage{}

	draft, err := newTestService(x, g, u).Draft(context.Background(), "r", DraftRequest{
		Workflow: WorkflowPDF,
		Form:     FormData{Destination: "Paris", ImageBase64: "iVBORw0KGgo=", Notes: "Cliente VIP"},
	})
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if draft.Text != "*Orçamento Paris*" || g.calls != 1 {
		t.Fatalf("expected a generated draft, got %+v after %d calls", draft, g.calls)
	}
	if x.calls != 0 {
		t.Fatal("extractor must not run without a pdf")
	}
	if strings.Contains(g.req.Prompt, PDFMarker) {
		t.Fatalf("marker must not appear without a pdf:\n%s", g.req.Prompt)
	}
	if g.req.ImageBase64 != "iVBORw0KGgo=" {
		t.Fatalf("image not forwarded: %q", g.req.ImageBase64)
	}
	if u.workflow != WorkflowPDF {
		t.Fatalf("usage workflow = %q", u.workflow)
	}
}

func TestDraftPDFWorkflowErrors(t *testing.T) {
	t.Run("extraction failure", func(t *testing.T) {
		extractErr := errors.New("corrupt")
		g := &fakeGenerator{}
		_, err := newTestService(&fakeExtractor{err: extractErr}, g, nil).Draft(context.Background(), "r", DraftRequest{
			Workflow: WorkflowPDF,
			Form:     FormData{PDFBase64: "@@"},
		})
		if !errors.Is(err, extractErr) {
			t.Fatalf("expected extraction error, got %v", err)
		}
		if g.calls != 0 {
			t.Fatal("generator must not run after a failed extraction")
		}
	})
}

func TestDraftRecordsUsageOnFailure(t *testing.T) {
	attempts := []ai.Attempt{{Model: "gpt-4o-mini", Err: errors.New("x")}, {Model: "gpt-4o", Err: errors.New("y")}}
	g := &fakeGenerator{result: ai.GenerationResult{Attempts: attempts}, err: &ai.ExhaustedError{Attempts: attempts}}
	u := &fakeUsage{}

	_, err := newTestService(&fakeExtractor{}, g, u).Draft(context.Background(), "r", DraftRequest{})
	if !errors.Is(err, ai.ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if len(u.attempts) != 2 {
		t.Fatalf("expected both attempts recorded, got %d", len(u.attempts))
	}
}
