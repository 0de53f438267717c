package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"

	"github.com/mudoc/mudoc/doc"
	"github.com/mudoc/mudoc/encode"
)

type MainConfig struct {
	J     bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y     bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`
	Color bool `cli:"name=color desc='encode with color'"`

	Main *cli.Command
}

func (cfg *MainConfig) parseDoc(data []byte) (*doc.Document, error) {
	if cfg.Y {
		return doc.ParseYAML(data)
	}
	return doc.ParseJSON(data)
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{}
	if cfg.Y {
		res = append(res, encode.EncodeFormat(encode.YAMLFormat))
	}
	if cfg.Color {
		res = append(res, encode.EncodeColors(encode.NewColors()))
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

// colored reports whether diff output should use colors, same default
// as encOpts.
func (cfg *MainConfig) colored(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

// getDocFile reads a document from the named file, or stdin for "-"
// or no argument.
func getDocFile(cfg *MainConfig, cc *cli.Context, args []string) (*doc.Document, []byte, error) {
	var (
		raw []byte
		err error
	)
	if len(args) == 0 || args[0] == "-" {
		raw, err = io.ReadAll(cc.In)
		if err != nil {
			return nil, nil, fmt.Errorf("error reading stdin: %w", err)
		}
	} else {
		raw, err = os.ReadFile(args[0])
		if err != nil {
			return nil, nil, fmt.Errorf("could not read %q: %w", args[0], err)
		}
	}
	d, err := cfg.parseDoc(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("error decoding document: %w", err)
	}
	return d, raw, nil
}

type ApplyConfig struct {
	*MainConfig
	Mod          string `cli:"name=m desc='update operator spec, e.g. {\"$pull\": {\"a.b\": 1}}'"`
	MatchedField string `cli:"name=f desc='concrete index bound to a positional ($) segment'"`
	Diff         bool   `cli:"name=diff desc='show a diff of the document instead of the result'"`

	Apply *cli.Command
}

type MatchConfig struct {
	*MainConfig
	Pred string `cli:"name=m desc='predicate to evaluate, e.g. {\"x\": {\"$gt\": 5}}'"`

	Match *cli.Command
}

type ReplayConfig struct {
	*MainConfig
	Entry string `cli:"name=l desc='log entry to replay, e.g. {\"$set\": {\"a\": [2,3]}}'"`
	Merge bool   `cli:"name=merge desc='replay through an RFC 7386 merge patch'"`

	Replay *cli.Command
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}
