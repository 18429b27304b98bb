package main

import (
	"time"

	"github.com/scott-cotton/cli"
	"github.com/signadot/rewind"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		{
			Name:        "I",
			Aliases:     []string{"ifmt"},
			Description: "input format: json/j, yaml/y",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.InFormat), "(format)"),
		}, {
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: json/j, yaml/y",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "rewind").
		WithSynopsis("rewind [opts] command [opts] [args]").
		WithDescription("rewind works with state snapshots and the deltas between them.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return rewindMain(cfg, cc, args)
		}).
		WithSubs(
			DiffCommand(cfg),
			PatchCommand(cfg),
			ReverseCommand(cfg),
			WalkCommand(cfg),
			ReplayCommand(cfg),
			WatchCommand(cfg),
			JournalCommand(cfg))
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d").
		WithSynopsis("diff [-r] [-m] <from> <to>").
		WithDescription("diff outputs the delta taking <from> to <to>, with exit code 1 if they differ.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Patch, "patch").
		WithAliases("p").
		WithSynopsis("patch [-r] [-m] <delta> <doc>").
		WithDescription("patch applies <delta> to <doc> and outputs the result.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return patch(cfg, cc, args)
		})
}

func ReverseCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ReverseConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Reverse, "reverse").
		WithAliases("rev").
		WithSynopsis("reverse [-m] <delta>").
		WithDescription("reverse outputs the inverse of <delta>.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return reverse(cfg, cc, args)
		})
}

func WalkCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &WalkConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Walk, "walk").
		WithAliases("w").
		WithSynopsis("walk [-filter expr] [-m] <start> [delta...]").
		WithDescription("walk applies each delta to <start> in turn and outputs the intermediate states.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return walk(cfg, cc, args)
		})
}

func ReplayCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ReplayConfig{MainConfig: mainCfg, Marker: rewind.DefaultMarker}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Replay, "replay").
		WithAliases("r").
		WithSynopsis("replay [-marker m] [-limit n] [-track keys] [-trace] <actions>").
		WithDescription("replay steps an action stream through an undoable transition and outputs the final state.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return replay(cfg, cc, args)
		})
}

func WatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &WatchConfig{MainConfig: mainCfg, Lim: -1, Every: time.Second}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, &cli.Opt{
		Name:        "every",
		Description: "how often to poll (default 1s)",
		Type:        cli.NamedFuncOpt(cfg.mkEvery(), "(duration)"),
	})
	return cli.NewCommandAt(&cfg.Watch, "watch").
		WithSynopsis("watch [-every duration] [-lim n] [-filter expr] <command>").
		WithDescription("watch runs <command> periodically and outputs a timestamped delta whenever its output changes.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return watch(cfg, cc, args)
		})
}

func JournalCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &JournalConfig{MainConfig: mainCfg, Keep: 1}
	return cli.NewCommandAt(&cfg.Journal, "journal").
		WithAliases("jr").
		WithSynopsis("journal <list|show|record|prune> [args]").
		WithDescription("journal inspects and appends to a snapshot journal.").
		WithSubs(
			JournalListCommand(cfg),
			JournalShowCommand(cfg),
			JournalRecordCommand(cfg),
			JournalPruneCommand(cfg))
}

func JournalListCommand(cfg *JournalConfig) *cli.Command {
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.List, "list").
		WithAliases("ls").
		WithSynopsis("list").
		WithDescription("list outputs the journalled snapshots, newest first.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return journalList(cfg, cc, args)
		})
}

func JournalShowCommand(cfg *JournalConfig) *cli.Command {
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Show, "show").
		WithSynopsis("show <seq>").
		WithDescription("show outputs the snapshot with the given sequence number.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return journalShow(cfg, cc, args)
		})
}

func JournalRecordCommand(cfg *JournalConfig) *cli.Command {
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Record, "record").
		WithSynopsis("record <doc>").
		WithDescription("record appends <doc> to the journal as a snapshot.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return journalRecord(cfg, cc, args)
		})
}

func JournalPruneCommand(cfg *JournalConfig) *cli.Command {
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Prune, "prune").
		WithSynopsis("prune [-keep n]").
		WithDescription("prune deletes all but the newest snapshots.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return journalPrune(cfg, cc, args)
		})
}
