package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: patch requires 2 arguments, a delta and a document", cli.ErrUsage)
	}
	differ := pickDiffer(cfg.Merge)
	delta, err := getDelta(cc, args[0], cfg.inFormat(), cfg.Merge)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	if cfg.Reverse && delta != nil {
		delta, err = differ.Reverse(delta)
		if err != nil {
			return fmt.Errorf("error reversing: %w", err)
		}
	}
	doc, err := getDoc(cc, args[1], cfg.inFormat())
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	res, err := differ.Patch(doc, delta)
	if err != nil {
		return fmt.Errorf("error patching %s: %w", args[1], err)
	}
	if err := encodeDoc(cc.Out, res, cfg.outFormat()); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

func reverse(cfg *ReverseConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Reverse.Parse(cc, args)
	if err != nil {
		cfg.Reverse.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: reverse requires a delta argument", cli.ErrUsage)
	}
	delta, err := getDelta(cc, args[0], cfg.inFormat(), cfg.Merge)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	if delta == nil {
		return nil
	}
	rev, err := pickDiffer(cfg.Merge).Reverse(delta)
	if err != nil {
		return fmt.Errorf("error reversing: %w", err)
	}
	if err := encodeDoc(cc.Out, rev, cfg.outFormat()); err != nil {
		return fmt.Errorf("error encoding delta: %w", err)
	}
	return nil
}
