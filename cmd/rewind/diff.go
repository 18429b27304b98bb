package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 arguments, got %d", cli.ErrUsage, len(args))
	}
	from, err := getDoc(cc, args[0], cfg.inFormat())
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	to, err := getDoc(cc, args[1], cfg.inFormat())
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	differ := pickDiffer(cfg.Merge)
	delta, err := differ.Diff(from, to)
	if err != nil {
		return fmt.Errorf("error diffing: %w", err)
	}
	if delta == nil {
		return nil
	}
	if cfg.Reverse {
		delta, err = differ.Reverse(delta)
		if err != nil {
			return fmt.Errorf("error reversing: %w", err)
		}
	}
	if err := encodeDoc(cc.Out, delta, cfg.outFormat()); err != nil {
		return fmt.Errorf("error encoding delta: %w", err)
	}
	// Like diff(1), exit 1 when the inputs differ.
	return cli.ExitCodeErr(1)
}
