package main

import (
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/mudoc/mudoc/doc"
	"github.com/mudoc/mudoc/encode"
	"github.com/mudoc/mudoc/modifier"
	"github.com/mudoc/mudoc/textdiff"
)

func apply(cfg *ApplyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Apply.Parse(cc, args)
	if err != nil {
		cfg.Apply.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.Mod == "" {
		return fmt.Errorf("%w: apply requires -m with an update operator spec", cli.ErrUsage)
	}
	target, _, err := getDocFile(cfg.MainConfig, cc, args)
	if err != nil {
		return err
	}

	mod, spec, err := parseMod(cfg.Mod)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	if err := mod.Init(spec); err != nil {
		return fmt.Errorf("error initializing operator: %w", err)
	}

	var before string
	if cfg.Diff {
		before = renderString(cfg.MainConfig, target.Root())
	}

	info := &modifier.ExecInfo{}
	if err := mod.Prepare(target.Root(), cfg.MatchedField, info); err != nil {
		return fmt.Errorf("error preparing update: %w", err)
	}
	if !info.NoOp {
		if err := mod.Apply(); err != nil {
			return fmt.Errorf("error applying update: %w", err)
		}
	}
	lb := modifier.NewLogBuilder()
	if err := mod.Log(lb); err != nil {
		return fmt.Errorf("error logging update: %w", err)
	}

	if cfg.Diff {
		after := renderString(cfg.MainConfig, target.Root())
		fmt.Fprint(cc.Out, textdiff.Strings(before, after, cfg.colored(cc.Out)))
	} else {
		if err := encode.Encode(target.Root(), cc.Out, cfg.encOpts(cc.Out)...); err != nil {
			return fmt.Errorf("error encoding result: %w", err)
		}
	}
	fmt.Fprintln(cc.Out, "---")
	if err := encode.Encode(lb.Root(), cc.Out, cfg.encOpts(cc.Out)...); err != nil {
		return fmt.Errorf("error encoding log entry: %w", err)
	}
	return nil
}

// parseMod decodes a single-operator update spec such as
// {"$pull": {"a.b": 1}} into an initialized-ready modifier and its
// path/operand element. Multi-operator specs belong to an update
// driver, not this tool.
func parseMod(raw string) (modifier.Modifier, doc.Element, error) {
	d, err := doc.ParseJSON([]byte(raw))
	if err != nil {
		return nil, doc.Element{}, fmt.Errorf("error decoding operator spec: %w", err)
	}
	root := d.Root()
	if root.Type() != doc.ObjectType || root.ChildCount() != 1 {
		return nil, doc.Element{}, fmt.Errorf("operator spec must have exactly one operator key")
	}
	opElt := root.LeftChild()
	mod, err := modifier.New(opElt.FieldName())
	if err != nil {
		return nil, doc.Element{}, err
	}
	if opElt.Type() != doc.ObjectType || opElt.ChildCount() != 1 {
		return nil, doc.Element{}, fmt.Errorf("%s must hold exactly one path: operand pair", opElt.FieldName())
	}
	return mod, opElt.LeftChild(), nil
}

func renderString(cfg *MainConfig, el doc.Element) string {
	var sb strings.Builder
	opts := []encode.EncodeOption{}
	if cfg.Y {
		opts = append(opts, encode.EncodeFormat(encode.YAMLFormat))
	}
	if err := encode.Encode(el, &sb, opts...); err != nil {
		return el.String()
	}
	return sb.String()
}
