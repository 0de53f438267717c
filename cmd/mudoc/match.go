package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/mudoc/mudoc/doc"
	"github.com/mudoc/mudoc/matcher"
)

func match(cfg *MatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Match.Parse(cc, args)
	if err != nil {
		cfg.Match.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.Pred == "" {
		return fmt.Errorf("%w: match requires -m with a predicate", cli.ErrUsage)
	}
	target, _, err := getDocFile(cfg.MainConfig, cc, args)
	if err != nil {
		return err
	}
	pd, err := doc.ParseJSON([]byte(cfg.Pred))
	if err != nil {
		return fmt.Errorf("error decoding predicate: %w", err)
	}
	m, err := matcher.Parse(pd.Root())
	if err != nil {
		return fmt.Errorf("error parsing predicate: %w", err)
	}
	ok, err := m.Matches(target.Root())
	if err != nil {
		return fmt.Errorf("error evaluating predicate: %w", err)
	}
	fmt.Fprintf(cc.Out, "%v\n", ok)
	if !ok {
		return cli.ExitCodeErr(1)
	}
	return nil
}
