package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/freedux/internal/errors"
	"github.com/vango-dev/freedux/internal/statefile"
	"github.com/vango-dev/freedux/pkg/path"
)

func getCmd(c *cli) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "get FILE PATH",
		Short: "Print the value at a path",
		Long: `Print the value at PATH in the state document FILE.

Examples:
  freedux get state.json todos.0.title
  freedux get s3://my-bucket/state.yaml '$.settings.theme' --yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := c.settings()
			if err != nil {
				return err
			}
			src, err := c.open(args[0], cfg)
			if err != nil {
				return err
			}
			doc, err := statefile.LoadSource(cmd.Context(), src)
			if err != nil {
				return err
			}
			p, err := parsePath(args[1])
			if err != nil {
				return err
			}

			value, ok := path.Lookup(doc, p)
			if !ok {
				return errors.Newf(errors.CategoryPath, "no value at %s", p).
					WithPath(p.String()).
					WithSuggestion("Check the path against the document; indexes are zero-based")
			}

			format := statefile.JSON
			if asYAML {
				format = statefile.YAML
			}
			data, err := statefile.Encode(value, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the value as YAML")

	return cmd
}

func parsePath(expr string) (path.Path, error) {
	p, err := path.Parse(expr)
	if err != nil {
		return nil, errors.New(errors.CodeInvalidPath).
			WithPath(expr).
			WithSuggestion("Use dotted keys (a.b.0) or a singular JSONPath ($.a.b[0])").
			Wrap(err)
	}
	return p, nil
}
