package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/mudoc/mudoc/doc"
	"github.com/mudoc/mudoc/replay"
)

func replayCmd(cfg *ReplayConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Replay.Parse(cc, args)
	if err != nil {
		cfg.Replay.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.Entry == "" {
		return fmt.Errorf("%w: replay requires -l with a log entry", cli.ErrUsage)
	}
	var raw []byte
	if len(args) == 0 || args[0] == "-" {
		raw, err = io.ReadAll(cc.In)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
	} else {
		raw, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("could not read %q: %w", args[0], err)
		}
	}
	ed, err := doc.ParseJSON([]byte(cfg.Entry))
	if err != nil {
		return fmt.Errorf("error decoding log entry: %w", err)
	}

	var res []byte
	if cfg.Merge {
		patch, err := replay.MergePatch(ed.Root())
		if err != nil {
			return fmt.Errorf("error encoding merge patch: %w", err)
		}
		res, err = replay.ApplyMergePatch(raw, patch)
		if err != nil {
			return fmt.Errorf("error applying merge patch: %w", err)
		}
	} else {
		res, err = replay.Entry(raw, ed.Root())
		if err != nil {
			return fmt.Errorf("error replaying entry: %w", err)
		}
	}
	fmt.Fprintf(cc.Out, "%s\n", res)
	return nil
}
