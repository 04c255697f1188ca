package clish

import (
	"encoding/xml"
	"fmt"
	"io"
)

// LoadSchema is deliberately out of the core's scope (spec.md §1): no
// example repo in the reference corpus targets bespoke XML-schema
// ingestion, so this loader uses encoding/xml directly rather than
// reaching for a third-party XML toolkit (see DESIGN.md).
//
// It parses the <ptype>/<command>/<param>/<view> vocabulary of
// spec.md §6 into a ready-to-serve Registry and Catalogue. Unknown
// attributes are ignored for forward compatibility; encoding/xml
// already does this for any attribute not named in the struct tags
// below.
func LoadSchema(r io.Reader) (*Registry, *Catalogue, error) {
	var doc schemaDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("clish: decode schema: %w", err)
	}

	registry := NewRegistry()
	for _, pt := range doc.Ptypes {
		ptype, err := pt.build()
		if err != nil {
			return nil, nil, err
		}
		registry.Register(ptype)
	}

	catalogue := NewCatalogue()
	views := make(map[string]*View, len(doc.Views))

	for _, xv := range doc.Views {
		views[xv.Name] = NewView(xv.Name, xv.Prompt)
	}
	for _, xv := range doc.Views {
		v := views[xv.Name]
		if xv.Global != "" {
			g, ok := views[xv.Global]
			if !ok {
				return nil, nil, fmt.Errorf("clish: view %q references unknown global view %q", xv.Name, xv.Global)
			}
			v.Global = g
		}
		for _, hk := range xv.Hotkeys {
			v.Hotkeys = append(v.Hotkeys, Hotkey{Key: hk.Key, Line: hk.Line})
		}
		catalogue.AddView(v)
	}

	for _, xc := range doc.Commands {
		v, ok := views[xc.View]
		if !ok {
			return nil, nil, fmt.Errorf("clish: command %q references unknown view %q", xc.Name, xc.View)
		}

		paramv, args, err := buildParamv(xc.Params, registry)
		if err != nil {
			return nil, nil, fmt.Errorf("clish: command %q: %w", xc.Name, err)
		}

		cmd := &Command{
			Name:     xc.Name,
			Text:     xc.Text,
			Detail:   xc.Detail,
			Paramv:   paramv,
			Args:     args,
			Viewname: xc.Viewname,
			Viewid:   xc.Viewid,
			Test:     xc.Test,
			Hidden:   xc.Hidden,
			Interrupt: xc.Interrupt,
			Restore:  restoreFromString(xc.Restore),
		}

		v.AddCommand(cmd)
	}

	return registry, catalogue, nil
}

func restoreFromString(s string) Restore {
	switch s {
	case "view":
		return RestoreView
	case "depth":
		return RestoreDepth
	default:
		return RestoreNone
	}
}

func buildParamv(xps []xmlParam, registry *Registry) (ParamV, *Param, error) {
	var out ParamV
	var args *Param

	for _, xp := range xps {
		p, isArgs, err := buildParam(xp, registry)
		if err != nil {
			return nil, nil, err
		}
		if isArgs {
			args = p
			continue
		}
		out = out.Append(p)
	}

	return out, args, nil
}

func buildParam(xp xmlParam, registry *Registry) (p *Param, isArgs bool, err error) {
	mode, err := modeFromString(xp.Mode)
	if err != nil {
		return nil, false, fmt.Errorf("param %q: %w", xp.Name, err)
	}

	var ptype *PType
	if xp.Ptype != "" {
		ptype = registry.Lookup(xp.Ptype)
		if ptype == nil {
			return nil, false, fmt.Errorf("param %q: unknown ptype %q", xp.Name, xp.Ptype)
		}
	}

	children, childArgs, err := buildParamv(xp.Params, registry)
	if err != nil {
		return nil, false, err
	}
	if childArgs != nil {
		children = children.Append(childArgs)
	}

	param := &Param{
		Name:       xp.Name,
		Ptype:      ptype,
		Text:       xp.Text,
		Value:      xp.Value,
		Defval:     xp.Defval,
		Mode:       mode,
		Optional:   xp.Optional,
		Order:      xp.Order,
		Hidden:     xp.Hidden,
		Test:       xp.Test,
		Completion: xp.Completion,
		Access:     xp.Access,
		Viewname:   xp.Viewname,
		Viewid:     xp.Viewid,
		Children:   children,
	}

	return param, xp.Name == "args", nil
}

func modeFromString(s string) (Mode, error) {
	switch s {
	case "", "common":
		return ModeCommon, nil
	case "subcommand":
		return ModeSubcommand, nil
	case "switch":
		return ModeSwitch, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// schemaDoc is the root <clish> document.
type schemaDoc struct {
	XMLName  xml.Name    `xml:"clish"`
	Ptypes   []xmlPtype  `xml:"ptype"`
	Views    []xmlView   `xml:"view"`
	Commands []xmlCommand `xml:"command"`
}

type xmlPtype struct {
	Name          string `xml:"name,attr"`
	Text          string `xml:"text,attr"`
	Method        string `xml:"method,attr"`
	Pattern       string `xml:"pattern,attr"`
	Preprocess    string `xml:"preprocess,attr"`
	ExtPattern    string `xml:"ext_pattern,attr"`
	AltPattern    string `xml:"alt_pattern,attr"`
	AltExtPattern string `xml:"alt_ext_pattern,attr"`

	Items []xmlItem `xml:"item"`
}

type xmlItem struct {
	Name    string `xml:"name,attr"`
	Value   string `xml:"value,attr"`
	ExtHelp string `xml:"ext_help,attr"`
}

func (x xmlPtype) build() (*PType, error) {
	method, err := methodFromString(x.Method)
	if err != nil {
		return nil, fmt.Errorf("ptype %q: %w", x.Name, err)
	}

	items := make([]SelectItem, len(x.Items))
	for i, it := range x.Items {
		items[i] = SelectItem{Name: it.Name, Value: it.Value, ExtHelp: it.ExtHelp}
	}

	return &PType{
		Name:          x.Name,
		Text:          x.Text,
		Pattern:       x.Pattern,
		Method:        method,
		Preprocess:    preprocessFromString(x.Preprocess),
		AltPattern:    x.AltPattern,
		ExtPattern:    x.ExtPattern,
		AltExtPattern: x.AltExtPattern,
		Items:         items,
	}, nil
}

func methodFromString(s string) (Method, error) {
	switch s {
	case "regexp":
		return MethodRegexp, nil
	case "integer":
		return MethodInteger, nil
	case "unsignedInteger":
		return MethodUnsignedInteger, nil
	case "select":
		return MethodSelect, nil
	case "code":
		return MethodCode, nil
	case "regexp-select":
		return MethodRegexpSelect, nil
	default:
		return 0, fmt.Errorf("unknown method %q", s)
	}
}

func preprocessFromString(s string) Preprocess {
	switch s {
	case "toUpper":
		return PreprocessToUpper
	case "toLower":
		return PreprocessToLower
	case "mode":
		return PreprocessMode
	default:
		return PreprocessNone
	}
}

type xmlView struct {
	Name    string       `xml:"name,attr"`
	Prompt  string       `xml:"prompt,attr"`
	Global  string       `xml:"global,attr"`
	Hotkeys []xmlHotkey  `xml:"hotkey"`
}

type xmlHotkey struct {
	Key  string `xml:"key,attr"`
	Line string `xml:"line,attr"`
}

type xmlCommand struct {
	Name      string     `xml:"name,attr"`
	Text      string     `xml:"text,attr"`
	Detail    string     `xml:"detail,attr"`
	View      string     `xml:"view,attr"`
	Viewname  string     `xml:"viewname,attr"`
	Viewid    string     `xml:"viewid,attr"`
	Test      string     `xml:"test,attr"`
	Hidden    bool       `xml:"hidden,attr"`
	Interrupt bool       `xml:"interrupt,attr"`
	Restore   string     `xml:"restore,attr"`
	Params    []xmlParam `xml:"param"`
}

type xmlParam struct {
	Name       string     `xml:"name,attr"`
	Ptype      string     `xml:"ptype,attr"`
	Text       string     `xml:"text,attr"`
	Value      string     `xml:"value,attr"`
	Defval     string     `xml:"defval,attr"`
	Mode       string     `xml:"mode,attr"`
	Optional   bool       `xml:"optional,attr"`
	Order      bool       `xml:"order,attr"`
	Hidden     bool       `xml:"hidden,attr"`
	Test       string     `xml:"test,attr"`
	Completion string     `xml:"completion,attr"`
	Access     string     `xml:"access,attr"`
	Viewname   string     `xml:"viewname,attr"`
	Viewid     string     `xml:"viewid,attr"`
	Params     []xmlParam `xml:"param"`
}
