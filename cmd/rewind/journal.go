package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	"github.com/signadot/rewind/store"
)

// openJournal opens the journal named by -db, falling back to the
// environment config.
func openJournal(cfg *JournalConfig) (*store.Journal, error) {
	path := cfg.DB
	limit := 0
	if path == "" {
		envCfg, err := store.FromEnv()
		if err != nil {
			return nil, err
		}
		path = envCfg.JournalDSN
		limit = envCfg.JournalCap
	}
	if path == "" {
		return nil, fmt.Errorf("%w: no journal: set -db or REWIND_JOURNAL_DSN", cli.ErrUsage)
	}
	return store.OpenJournal(path, limit)
}

func journalList(cfg *JournalConfig, cc *cli.Context, args []string) error {
	args, err := cfg.List.Parse(cc, args)
	if err != nil {
		cfg.List.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: list takes no arguments", cli.ErrUsage)
	}
	keep, err := compileFilter(cfg.Filter)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer j.Close()
	entries, err := j.List()
	if err != nil {
		return err
	}
	idColor := paint(cc.Out, cfg.MainConfig, color.FgCyan)
	for _, e := range entries {
		if cfg.Filter != "" {
			snap, err := j.ReadSeq(e.Seq)
			if err != nil {
				return err
			}
			ok, err := keep(snap)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
		}
		fmt.Fprintf(cc.Out, "%d\t%s\t%s\n", e.Seq, idColor.Sprint(e.ID), e.At.Format(time.RFC3339))
	}
	return nil
}

func journalPrune(cfg *JournalConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Prune.Parse(cc, args)
	if err != nil {
		cfg.Prune.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: prune takes no arguments", cli.ErrUsage)
	}
	if cfg.Keep < 0 {
		return fmt.Errorf("%w: -keep must be non-negative", cli.ErrUsage)
	}
	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer j.Close()
	before, err := j.List()
	if err != nil {
		return err
	}
	if err := j.Prune(cfg.Keep); err != nil {
		return err
	}
	after, err := j.List()
	if err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "pruned %d of %d snapshots\n", len(before)-len(after), len(before))
	return nil
}

func journalShow(cfg *JournalConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Show.Parse(cc, args)
	if err != nil {
		cfg.Show.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: show requires a sequence number", cli.ErrUsage)
	}
	seq, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad sequence number %q: %w", cli.ErrUsage, args[0], err)
	}
	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer j.Close()
	snap, err := j.ReadSeq(seq)
	if err != nil {
		return err
	}
	return encodeDoc(cc.Out, snap, cfg.outFormat())
}

func journalRecord(cfg *JournalConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Record.Parse(cc, args)
	if err != nil {
		cfg.Record.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: record requires a document argument", cli.ErrUsage)
	}
	doc, err := getDoc(cc, args[0], cfg.inFormat())
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	snap, ok := doc.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: document must be a record, got %T", cli.ErrUsage, doc)
	}
	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer j.Close()
	return j.Write(snap)
}
