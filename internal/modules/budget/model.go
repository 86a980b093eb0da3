// README: Budget form types and workflow names.
package budget

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Workflow names accepted in the "tipo" field.
const (
	WorkflowBudget = "orcamento"
	WorkflowPDF    = "pdf"
)

// AutoModel lets the selector decide.
const AutoModel = "auto"

// PDFMarker introduces extracted PDF text inside the notes.
const PDFMarker = "[EXTRAÍDO DO PDF]"

// FormData is the front-end form. Every field is optional.
type FormData struct {
	Destination string     `json:"destino,omitempty"`
	Adults      FlexString `json:"adultos,omitempty"`
	Children    FlexString `json:"criancas,omitempty"`
	Services    FlexList   `json:"tipos,omitempty"`
	Notes       string     `json:"observacoes,omitempty"`
	PastedText  string     `json:"textoColado,omitempty"`
	PDFBase64   string     `json:"pdfBase64,omitempty"`
	ImageBase64 string     `json:"imagemBase64,omitempty"`
	FileBase64  string     `json:"arquivoBase64,omitempty"`
}

// HasAttachment reports whether any attachment field is populated.
func (f FormData) HasAttachment() bool {
	return f.PDFBase64 != "" || f.ImageBase64 != "" || f.FileBase64 != ""
}

// ModelPreference is a requested model plus its ordered fallback list.
type ModelPreference struct {
	Model    string
	Fallback []string
}

// IsAuto reports whether the selector should choose the models.
func (p ModelPreference) IsAuto() bool {
	m := strings.TrimSpace(p.Model)
	return m == "" || strings.EqualFold(m, AutoModel)
}

// DraftRequest is one budget drafting request.
type DraftRequest struct {
	Workflow   string
	Form       FormData
	Preference ModelPreference
}

// Draft is the generated budget text and the model that wrote it.
type Draft struct {
	Text  string
	Model string
}

// FlexString accepts a JSON string or number ("2" and 2 are both 2).
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

// FlexList accepts a JSON array of strings or a single string.
type FlexList []string

func (l *FlexList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		if strings.TrimSpace(v) == "" {
			*l = nil
		} else {
			*l = FlexList{v}
		}
		return nil
	}
	var v []string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*l = v
	return nil
}
