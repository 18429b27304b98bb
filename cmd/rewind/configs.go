package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

// MainConfig is the config for the root command, shared by
// embedding with all the subcommand configs.
type MainConfig struct {
	J     bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y     bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`
	Color bool `cli:"name=color desc='force color output'"`

	InFormat  *Format
	OutFormat *Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

// fmtFunc returns a cli option func which parses a format
// and sets the pointed-to formats accordingly.
func (cfg *MainConfig) fmtFunc(fps ...**Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// inFormat resolves the input format from the -j/-y shorthands
// and any explicit -I flag, which takes precedence.
func (cfg *MainConfig) inFormat() Format {
	fmat := JSONFormat
	if cfg.Y {
		fmat = YAMLFormat
	}
	if cfg.InFormat != nil {
		fmat = *cfg.InFormat
	}
	return fmat
}

func (cfg *MainConfig) outFormat() Format {
	fmat := JSONFormat
	if cfg.Y {
		fmat = YAMLFormat
	}
	if cfg.OutFormat != nil {
		fmat = *cfg.OutFormat
	}
	return fmat
}

// colorize reports whether output to w should be colored: always
// under -color, otherwise only when w is a terminal.
func (cfg *MainConfig) colorize(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) outOpt(cc *cli.Context, v string) (any, error) {
	f, err := os.OpenFile(v, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to open %q: %w", cli.ErrUsage, v, err)
	}
	cfg.Out = v
	cfg.CloseOut = f.Close
	cc.Out = f
	return f, nil
}

type DiffConfig struct {
	*MainConfig

	Reverse bool `cli:"name=r desc='output the reverse delta'"`
	Merge   bool `cli:"name=m aliases=merge desc='use rfc 7386 merge-patch deltas'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig

	Reverse bool `cli:"name=r desc='apply the delta in reverse'"`
	Merge   bool `cli:"name=m aliases=merge desc='read an rfc 7386 merge-patch delta'"`

	Patch *cli.Command
}

type ReverseConfig struct {
	*MainConfig

	Merge bool `cli:"name=m aliases=merge desc='read an rfc 7386 merge-patch delta'"`

	Reverse *cli.Command
}

type WalkConfig struct {
	*MainConfig

	Filter string `cli:"name=filter desc='expression selecting which states to print'"`
	Merge  bool   `cli:"name=m aliases=merge desc='read rfc 7386 merge-patch deltas'"`

	Walk *cli.Command
}

type WatchConfig struct {
	*MainConfig

	Filter string `cli:"name=filter desc='expression selecting which states to consider'"`
	Merge  bool   `cli:"name=m aliases=merge desc='emit rfc 7386 merge-patch deltas'"`
	Lim    int    `cli:"name=lim desc='max number of times to poll (default unlimited)'"`

	Every time.Duration

	Watch *cli.Command
}

// mkEvery returns an option func for the watch poll interval.
func (cfg *WatchConfig) mkEvery() func(cc *cli.Context, a string) (any, error) {
	return func(_ *cli.Context, a string) (any, error) {
		d, err := time.ParseDuration(a)
		if err != nil {
			return nil, fmt.Errorf("%w: bad duration %q: %w", cli.ErrUsage, a, err)
		}
		cfg.Every = d
		return d, nil
	}
}

type ReplayConfig struct {
	*MainConfig

	Marker string `cli:"name=marker desc='moment marker matched within action tags'"`
	Limit  int    `cli:"name=limit desc='bound on undo history (default unbounded)'"`
	Track  string `cli:"name=track desc='comma-separated top-level keys to track'"`
	Store  string `cli:"name=store desc='snapshot store path (default $REWIND_STORE_PATH)'"`
	Resume bool   `cli:"name=resume desc='seed the initial state from the store'"`
	Save   bool   `cli:"name=save desc='persist the final snapshot to the store'"`
	Trace  bool   `cli:"name=trace desc='print an outcome line per action'"`
	Merge  bool   `cli:"name=m aliases=merge desc='use rfc 7386 merge-patch deltas'"`

	Replay *cli.Command
}

type JournalConfig struct {
	*MainConfig

	DB     string `cli:"name=db desc='journal database path (default $REWIND_JOURNAL_DSN)'"`
	Filter string `cli:"name=filter desc='expression selecting snapshots by content'"`
	Keep   int    `cli:"name=keep desc='snapshots to keep when pruning (default 1)'"`

	Journal *cli.Command
	List    *cli.Command
	Show    *cli.Command
	Record  *cli.Command
	Prune   *cli.Command
}
