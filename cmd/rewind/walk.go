package main

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/scott-cotton/cli"
	"github.com/signadot/rewind/history"
	"github.com/signadot/rewind/libdiff"
)

func walk(cfg *WalkConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Walk.Parse(cc, args)
	if err != nil {
		cfg.Walk.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 1 {
		return fmt.Errorf("%w: walk requires a start document", cli.ErrUsage)
	}
	keep, err := compileFilter(cfg.Filter)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	start, err := getDoc(cc, args[0], cfg.inFormat())
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	differ := pickDiffer(cfg.Merge)
	deltas := make([]libdiff.Delta, 0, len(args)-1)
	for _, arg := range args[1:] {
		delta, err := getDelta(cc, arg, cfg.inFormat(), cfg.Merge)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", arg, err)
		}
		deltas = append(deltas, delta)
	}
	printed := 0
	emit := func(state any) error {
		ok, err := keep(state)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if printed > 0 {
			if _, err := cc.Out.Write([]byte("---\n")); err != nil {
				return err
			}
		}
		printed++
		return encodeDoc(cc.Out, state, cfg.outFormat())
	}
	if err := emit(start); err != nil {
		return err
	}
	for state, err := range history.Walk(differ, start, deltas) {
		if err != nil {
			return fmt.Errorf("error walking deltas: %w", err)
		}
		if err := emit(state); err != nil {
			return err
		}
	}
	return nil
}

// compileFilter compiles an expr predicate over a state. The empty
// source keeps everything. States which are not records evaluate
// against an empty environment.
func compileFilter(src string) (func(any) (bool, error), error) {
	if src == "" {
		return func(any) (bool, error) { return true, nil }, nil
	}
	prg, err := expr.Compile(src,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
		expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	return func(state any) (bool, error) {
		env, ok := state.(map[string]any)
		if !ok {
			env = map[string]any{}
		}
		res, err := expr.Run(prg, env)
		if err != nil {
			return false, fmt.Errorf("error running filter: %w", err)
		}
		b, _ := res.(bool)
		return b, nil
	}, nil
}
