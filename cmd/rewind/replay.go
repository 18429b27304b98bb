package main

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	"github.com/signadot/rewind"
	"github.com/signadot/rewind/backup"
	"github.com/signadot/rewind/libdiff"
	"github.com/signadot/rewind/store"
	"github.com/signadot/rewind/tree"
)

// replayTransition is the transition replay steps with: an action
// whose payload is a record replaces the state wholesale, anything
// else leaves it alone.
func replayTransition(state map[string]any, action rewind.Action) map[string]any {
	if next, ok := action.Payload.(map[string]any); ok {
		return next
	}
	return state
}

func identityCodec() *backup.Codec {
	return &backup.Codec{
		Save: func(v any) (any, error) { return tree.Clone(v), nil },
		Load: func(stored any, _ *backup.Loader) (any, error) { return tree.Clone(stored), nil },
	}
}

func trackNode(keys []string) *backup.Node {
	m := map[string]*backup.Node{}
	for _, k := range keys {
		m[k] = backup.Leaf(identityCodec())
	}
	return backup.Map(m)
}

// trackKeys resolves which top-level keys time travel covers: -track
// when given, otherwise the keys of the resumed snapshot or of the
// first record payload in the action stream.
func trackKeys(cfg *ReplayConfig, seed map[string]any, actions []rewind.Action) ([]string, error) {
	if cfg.Track != "" {
		keys := strings.Split(cfg.Track, ",")
		for i := range keys {
			keys[i] = strings.TrimSpace(keys[i])
		}
		return keys, nil
	}
	if len(seed) > 0 {
		return slices.Sorted(maps.Keys(seed)), nil
	}
	for _, act := range actions {
		if m, ok := act.Payload.(map[string]any); ok && len(m) > 0 {
			return slices.Sorted(maps.Keys(m)), nil
		}
	}
	return nil, fmt.Errorf("cannot determine tracked keys, use -track")
}

func getActions(cc *cli.Context, path string, fmat Format) ([]rewind.Action, error) {
	data, err := readInput(cc, path)
	if err != nil {
		return nil, err
	}
	var actions []rewind.Action
	for i, doc := range bytes.Split(data, []byte("\n---\n")) {
		if len(bytes.TrimSpace(doc)) == 0 {
			continue
		}
		act := rewind.Action{}
		if err := unmarshalAs(doc, fmat, &act); err != nil {
			return nil, fmt.Errorf("error decoding action %d: %w", i, err)
		}
		actions = append(actions, act)
	}
	return actions, nil
}

func openStore(cfg *ReplayConfig) (store.Store, error) {
	if cfg.Store != "" {
		return store.NewFile(cfg.Store), nil
	}
	envCfg, err := store.FromEnv()
	if err != nil {
		return nil, err
	}
	return envCfg.Open()
}

func replay(cfg *ReplayConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Replay.Parse(cc, args)
	if err != nil {
		cfg.Replay.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: replay requires an actions file", cli.ErrUsage)
	}
	actions, err := getActions(cc, args[0], cfg.inFormat())
	if err != nil {
		return err
	}
	var st store.Store
	if cfg.Resume || cfg.Save {
		st, err = openStore(cfg)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
		}
	}
	var env *rewind.Envelope
	var seed map[string]any
	if cfg.Resume {
		if seed = store.Restore(st, nil, nil); seed != nil {
			env = &rewind.Envelope{State: seed}
		}
	}
	keys, err := trackKeys(cfg, seed, actions)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	opts := []rewind.Option{
		rewind.WithMarker(cfg.Marker),
		rewind.WithLimit(cfg.Limit),
	}
	if cfg.Merge {
		opts = append(opts, rewind.WithDiffer(libdiff.NewMergePatch()))
	}
	u := rewind.Wrap(replayTransition, trackNode(keys), opts...)
	comment := paint(cc.Out, cfg.MainConfig, color.FgCyan)
	for i, act := range actions {
		next, outcome, err := u.Step(env, act)
		if err != nil {
			return fmt.Errorf("error replaying action %d: %w", i, err)
		}
		env = next
		if cfg.Trace {
			if _, err := comment.Fprintf(cc.Out, "# %d %s %s\n", i, outcome, act.Tag); err != nil {
				return err
			}
		}
	}
	if env == nil {
		return nil
	}
	if cfg.Save {
		store.Persist(st, env.Present, nil)
	}
	return encodeDoc(cc.Out, env.State, cfg.outFormat())
}
