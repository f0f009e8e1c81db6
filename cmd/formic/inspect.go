package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/formic-dev/formic/internal/formdef"
	"github.com/formic-dev/formic/pkg/ctree"
	"github.com/formic-dev/formic/pkg/form"
	"github.com/formic-dev/formic/pkg/path"
)

func inspectCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <form.yaml>",
		Short: "Resolve a form definition into paths, kinds and defaults",
		Long: `Inspect loads a YAML form definition, builds its control tree and
prints what the binding engine would see: one line per control with
its resolved path and kind, followed by the default value tree.

Examples:
  formic inspect signup.yaml
  formic inspect signup.yaml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print defaults as JSON only")

	return cmd
}

func runInspect(file string, asJSON bool) error {
	def, err := formdef.Load(file)
	if err != nil {
		return err
	}

	root := def.Build()
	controls := form.Scan(root)
	defaults := form.Defaults(root)

	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(defaults)
	}

	if def.Name != "" {
		fmt.Printf("form %q\n\n", def.Name)
	}
	for _, c := range controls {
		p, ok := path.ResolvePath(c)
		if !ok {
			continue
		}
		fmt.Printf("  %-30s %s\n", p.String(), ctree.KindOf(c).String())
	}

	fmt.Println("\ndefaults:")
	out, err := json.MarshalIndent(defaults, "  ", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("  %s\n", out)
	return nil
}
