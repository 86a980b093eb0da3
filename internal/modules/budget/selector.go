// README: Model selector; maps form hints and provider availability to primary + fallback models.
package budget

import (
	"strings"

	"tripbudget/internal/config"
)

// Selector picks models for a request. It is a value type and safe to share.
type Selector struct {
	catalog config.ModelCatalog
	// visionAvailable is true when the Anthropic credential is configured.
	visionAvailable bool
}

func NewSelector(catalog config.ModelCatalog, visionAvailable bool) Selector {
	return Selector{catalog: catalog, visionAvailable: visionAvailable}
}

// Select returns the model walk for a form.
// A non-auto preference is returned verbatim (fallback defaults to the catalog's
// DefaultFallback when nil), except that a bare "gemini" or "gemini:" id becomes the
// catalog's Gemini model. For auto: attachments go to the vision model when
// available, else the flagship; plain forms go to the economy model.
func (s Selector) Select(form FormData, pref ModelPreference) ModelPreference {
	if !pref.IsAuto() {
		fallback := pref.Fallback
		if fallback == nil {
			fallback = s.catalog.DefaultFallback
		}
		out := ModelPreference{Model: s.resolve(pref.Model), Fallback: clone(fallback)}
		for i, id := range out.Fallback {
			out.Fallback[i] = s.resolve(id)
		}
		return out
	}

	switch {
	case form.HasAttachment() && s.visionAvailable:
		return ModelPreference{Model: s.catalog.Vision, Fallback: []string{s.catalog.Flagship}}
	case form.HasAttachment():
		return ModelPreference{Model: s.catalog.Flagship, Fallback: []string{s.catalog.Economy}}
	default:
		return ModelPreference{Model: s.catalog.Economy, Fallback: []string{s.catalog.Flagship}}
	}
}

func (s Selector) resolve(id string) string {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case "gemini", "gemini:":
		if s.catalog.Gemini != "" {
			return s.catalog.Gemini
		}
	}
	return id
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
