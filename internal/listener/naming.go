package listener

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"trl/internal/config"
	"trl/internal/domain"
)

// Namer derives the milestone, plan and run names of a session from the host
// context. It is the site-specific naming policy.
type Namer interface {
	Names(hc domain.HostContext) (domain.RunNames, error)
}

// NamerFunc adapts a function to Namer.
type NamerFunc func(hc domain.HostContext) (domain.RunNames, error)

func (f NamerFunc) Names(hc domain.HostContext) (domain.RunNames, error) {
	return f(hc)
}

// TemplateNamer renders names from text/template sources with the sprig
// function set. Templates see .Suite and .Vars (host variables by name,
// without sigil), e.g. `{{ .Vars.DUTPLATFORM }} - {{ .Vars.DUTVERSION }}`.
type TemplateNamer struct {
	milestone *template.Template
	plan      *template.Template
	run       *template.Template
}

// NewTemplateNamer parses the configured naming templates.
func NewTemplateNamer(n config.Naming) (*TemplateNamer, error) {
	parse := func(name, src string) (*template.Template, error) {
		t, err := template.New(name).Funcs(sprig.TxtFuncMap()).Option("missingkey=zero").Parse(src)
		if err != nil {
			return nil, config.ConfigurationError{Field: "naming." + name, Message: err.Error()}
		}
		return t, nil
	}

	var tn TemplateNamer
	var err error
	if tn.milestone, err = parse("milestone", n.Milestone); err != nil {
		return nil, err
	}
	if tn.plan, err = parse("plan", n.Plan); err != nil {
		return nil, err
	}
	if tn.run, err = parse("run", n.Run); err != nil {
		return nil, err
	}
	return &tn, nil
}

func (tn *TemplateNamer) Names(hc domain.HostContext) (domain.RunNames, error) {
	if hc.Vars == nil {
		hc.Vars = map[string]string{}
	}
	render := func(t *template.Template) (string, error) {
		var buf bytes.Buffer
		if err := t.Execute(&buf, hc); err != nil {
			return "", fmt.Errorf("render %s name: %w", t.Name(), err)
		}
		name := strings.TrimSpace(buf.String())
		if name == "" {
			return "", fmt.Errorf("render %s name: template produced an empty name", t.Name())
		}
		return name, nil
	}

	var names domain.RunNames
	var err error
	if names.Milestone, err = render(tn.milestone); err != nil {
		return domain.RunNames{}, err
	}
	if names.Plan, err = render(tn.plan); err != nil {
		return domain.RunNames{}, err
	}
	if names.Run, err = render(tn.run); err != nil {
		return domain.RunNames{}, err
	}
	return names, nil
}
