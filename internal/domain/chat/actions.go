package chat

import (
	"fmt"
	"net/url"
	"strings"
)

// ActionType tags the action union the model may propose.
type ActionType string

const (
	ActionCollectLead ActionType = "collect_lead"
	ActionCTA         ActionType = "cta"
)

// Action is a tagged union: collect_lead carries the fields to ask for, cta
// carries a label and URL. Anything coming back from the model is validated
// before it is trusted; CTA URLs additionally pass the same liveness pipeline
// as inline reply links.
type Action struct {
	Type   ActionType `json:"type"`
	Fields []string   `json:"fields,omitempty"`
	Label  string     `json:"label,omitempty"`
	URL    string     `json:"url,omitempty"`
}

var collectableFields = map[string]bool{"name": true, "email": true, "phone": true}

// Validate checks the action against its schema. Matching is exhaustive:
// unknown types are rejected outright.
func (a Action) Validate() error {
	switch a.Type {
	case ActionCollectLead:
		if len(a.Fields) == 0 {
			return fmt.Errorf("collect_lead requires at least one field")
		}
		for _, f := range a.Fields {
			if !collectableFields[f] {
				return fmt.Errorf("collect_lead field %q not collectable", f)
			}
		}
		return nil
	case ActionCTA:
		if strings.TrimSpace(a.Label) == "" {
			return fmt.Errorf("cta requires a label")
		}
		u, err := url.Parse(a.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("cta requires an absolute http(s) url")
		}
		return nil
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
}

// FilterValid drops actions that fail schema validation.
func FilterValid(actions []Action) []Action {
	out := actions[:0:0]
	for _, a := range actions {
		if a.Validate() == nil {
			out = append(out, a)
		}
	}
	return out
}

// CollectLeadAction builds the forced lead-collection action used in strict mode.
func CollectLeadAction(fields ...string) Action {
	return Action{Type: ActionCollectLead, Fields: fields}
}
