package main

import (
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/fatih/color"
	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
	"github.com/signadot/rewind/debug"
	"github.com/signadot/rewind/libdiff"
)

func watch(cfg *WatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Watch.Parse(cc, args)
	if err != nil {
		cfg.Watch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: watch requires a command to run", cli.ErrUsage)
	}
	keep, err := compileFilter(cfg.Filter)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	// Start gops agent so long-running watches can be inspected.
	if err := agent.Listen(agent.Options{}); err != nil {
		fmt.Fprintf(cc.Out, "gops agent failed: %v\n", err)
	}
	defer agent.Close()

	differ := pickDiffer(cfg.Merge)
	var last any
	i := 0
	diffCount := 0
	ticker := time.NewTicker(cfg.Every)
	defer ticker.Stop()
	for {
		if i == cfg.Lim {
			break
		}
		next, err := watchOnce(cfg, args[0])
		if err != nil {
			return err
		}
		ok, err := keep(next)
		if err != nil {
			return err
		}
		if ok {
			differs, err := watchDiff(cfg, cc, differ, last, next, diffCount > 0)
			if err != nil {
				return err
			}
			if differs {
				diffCount++
			}
			last = next
		}
		<-ticker.C
		i++
	}
	return nil
}

func watchOnce(cfg *WatchConfig, command string) (any, error) {
	cmd := exec.Command("sh", "-c", command)
	r, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("unable to create pipe for command %q: %w", command, err)
	}
	cmd.WaitDelay = cfg.Every
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("unable to start %q: %w", command, err)
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read output of %q: %w", command, err)
	}
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("command %q exited with an error: %w", command, err)
	}
	doc, err := decodeDoc(d, cfg.inFormat())
	if err != nil {
		return nil, fmt.Errorf("error decoding command output: %w", err)
	}
	return doc, nil
}

func watchDiff(cfg *WatchConfig, cc *cli.Context, differ libdiff.Differ, last, next any, sep bool) (bool, error) {
	delta, err := differ.Diff(last, next)
	if err != nil {
		return false, fmt.Errorf("error diffing: %w", err)
	}
	if delta == nil {
		return false, nil
	}
	if debug.Diff() {
		debug.LogAny(delta)
	}
	w := cc.Out
	when := time.Now().Format(time.RFC3339Nano)
	if sep {
		if _, err := w.Write([]byte("---\n")); err != nil {
			return false, fmt.Errorf("unable to write separator: %w", err)
		}
	}
	if _, err := paint(w, cfg.MainConfig, color.FgCyan).Fprintf(w, "# difference found at %s\n", when); err != nil {
		return false, err
	}
	if err := encodeDoc(w, delta, cfg.outFormat()); err != nil {
		return false, fmt.Errorf("error encoding delta: %w", err)
	}
	return true, nil
}
