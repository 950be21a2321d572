package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/vango-dev/freedux/internal/errors"
	"github.com/vango-dev/freedux/internal/statefile"
	"github.com/vango-dev/freedux/pkg/path"
	"github.com/vango-dev/freedux/pkg/store"
)

// resultObserver remembers the outcome of the last write.
type resultObserver struct {
	store.NopObserver
	last store.WriteResult
}

func (o *resultObserver) OnWrite(_ string, _ path.Path, result store.WriteResult) {
	o.last = result
}

func setCmd(c *cli) *cobra.Command {
	var (
		valueYAML bool
		write     bool
	)

	cmd := &cobra.Command{
		Use:   "set FILE PATH VALUE",
		Short: "Write a value at a path and print the new document",
		Long: `Write VALUE at PATH in the state document FILE and print the
resulting document. VALUE is parsed as JSON (or YAML with --yaml);
text that does not parse is taken as a string.

The untouched parts of the document are shared with the original.
A summary of which top-level keys were shared or rewritten is
printed to stderr.

Examples:
  freedux set state.json todos.0.done true
  freedux set state.yaml '$.settings' '{theme: dark}' --yaml --write
  freedux set s3://my-bucket/state.json count 3 --write`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, expr, text := args[0], args[1], args[2]

			cfg, level, err := c.settings()
			if err != nil {
				return err
			}
			src, err := c.open(file, cfg)
			if err != nil {
				return err
			}
			doc, err := statefile.LoadSource(cmd.Context(), src)
			if err != nil {
				return err
			}
			p, err := parsePath(expr)
			if err != nil {
				return err
			}

			valueFormat := statefile.JSON
			if valueYAML {
				valueFormat = statefile.YAML
			}
			value := statefile.DecodeValue(text, valueFormat)

			obs := &resultObserver{}
			s := store.New[any](doc,
				store.WithName(cfg.Name),
				store.WithLogger(c.logger(cmd.ErrOrStderr(), level)),
				store.WithObserver(obs),
			)
			before := s.Get()
			store.CreateSetterPath[any](s, p).Set(value)

			switch obs.last {
			case store.WriteUnreachable:
				return errors.New(errors.CodeUnreachablePath).WithPath(p.String())
			case store.WriteTypeMismatch:
				return errors.New(errors.CodeTypeMismatch).WithPath(p.String())
			}

			after := s.Get()
			data, err := statefile.Encode(after, src.Format())
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			if obs.last == store.WriteNoop {
				c.info(stderr, "%s already holds that value; nothing changed", p)
			} else {
				shared, rewritten := topLevelSharing(before, after)
				c.success(stderr, "set %s (revision %d)", p, s.Revision())
				if len(shared) > 0 {
					c.info(stderr, "shared:    %v", shared)
				}
				if len(rewritten) > 0 {
					c.info(stderr, "rewritten: %v", rewritten)
				}
			}

			if write {
				if err := src.Write(cmd.Context(), data); err != nil {
					return err
				}
				c.success(stderr, "wrote %s", src.Name())
				return nil
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&valueYAML, "yaml", false, "Parse VALUE as YAML instead of JSON")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to FILE instead of printing it")

	return cmd
}

// topLevelSharing splits the top-level keys of after into those still
// identical to before and those replaced or added.
func topLevelSharing(before, after any) (shared, rewritten []string) {
	b, _ := before.(map[string]any)
	a, ok := after.(map[string]any)
	if !ok {
		return nil, nil
	}

	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		old, existed := b[k]
		if existed && store.Same(old, a[k]) {
			shared = append(shared, k)
		} else {
			rewritten = append(rewritten, k)
		}
	}
	return shared, rewritten
}
