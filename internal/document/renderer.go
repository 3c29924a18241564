// Package document renders document templates by substituting their
// {{variable}} placeholders according to the template's variable bindings.
package document

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/OpenVertical/vertical/internal/pack/model"
)

// RenderScope carries the data a rendering can draw bindings from. Nil maps
// are treated as empty. Now defaults to time.Now but can be pinned in tests.
type RenderScope struct {
	Tenant       map[string]string
	Customer     map[string]string
	ServiceOrder map[string]string
	Input        map[string]string
	Now          func() time.Time
}

func (s RenderScope) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// MissingVariablesError lists the variables a rendering could not satisfy.
// Rendering is all-or-nothing, a document with unfilled placeholders is
// never produced.
type MissingVariablesError struct {
	Variables []string
}

func (e *MissingVariablesError) Error() string {
	return fmt.Sprintf("missing variables: %s", strings.Join(e.Variables, ", "))
}

// Render substitutes every declared variable of the template into its HTML
// content. Unknown auto fields and unsatisfiable source bindings are
// collected and reported together.
func Render(tpl *model.DocumentTemplate, scope RenderScope) (string, error) {
	if tpl == nil {
		return "", fmt.Errorf("template cannot be nil")
	}

	values := make(map[string]string, len(tpl.Variables))
	var missing []string

	for name, binding := range tpl.Variables {
		value, ok := evalBinding(name, binding, scope)
		if !ok {
			missing = append(missing, name)
			continue
		}
		values[name] = value
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return "", &MissingVariablesError{Variables: missing}
	}

	content := tpl.ContentHTML
	for name, value := range values {
		content = strings.ReplaceAll(content, "{{"+name+"}}", value)
	}
	return content, nil
}

func evalBinding(name string, b model.VariableBinding, scope RenderScope) (string, bool) {
	if b.IsLiteral() {
		return *b.Literal, true
	}

	switch b.Source {
	case model.BindingSourceTenant:
		return lookup(scope.Tenant, b.Field)
	case model.BindingSourceCustomer:
		return lookup(scope.Customer, b.Field)
	case model.BindingSourceServiceOrder:
		return lookup(scope.ServiceOrder, b.Field)
	case model.BindingSourceInput:
		// Input bindings default to the placeholder name itself: most pack
		// authors leave Field empty and callers supply values keyed by the
		// variable names the template shows.
		key := b.Field
		if key == "" {
			key = name
		}
		return lookup(scope.Input, key)
	case model.BindingSourceAuto:
		return evalAuto(b.Field, scope.now())
	default:
		return "", false
	}
}

func lookup(m map[string]string, field string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m[field]
	return v, ok
}

func evalAuto(field string, now time.Time) (string, bool) {
	switch field {
	case "date":
		return now.Format("02/01/2006"), true
	case "datetime":
		return now.Format("02/01/2006 15:04"), true
	case "year":
		return now.Format("2006"), true
	default:
		return "", false
	}
}
