// internal/app/so.go
package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gffkit/core/so"
	"gffkit/core/style"
)

func newSOCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "so",
		Short: "Inspect the Sequence Ontology tables",
	}
	cmd.AddCommand(newSOLookupCmd(e), newSOListCmd(e))
	return cmd
}

// terms returns the SO table selected by config and flags.
func (e *env) terms(cmd *cobra.Command) (*so.Collection, error) {
	opts, _, err := e.sessionOptions(cmd)
	if err != nil {
		return nil, err
	}
	c, ok := opts.Registry.Collection(opts.SOSet)
	if !ok {
		return nil, usageErr(fmt.Errorf("SO set %q not loaded", opts.SOSet))
	}
	return c, nil
}

func renderTerm(t so.Term) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(t.Name))
	sb.WriteString(" ")
	sb.WriteString(valueStyle.Render(t.ID()))
	sb.WriteString("\n")
	sb.WriteString("  " + labelStyle.Render("mode") + " " + t.Mode.String() + "\n")
	if t.Homol != style.HomolNone {
		sb.WriteString("  " + labelStyle.Render("homol") + " " + t.Homol.String() + "\n")
	}
	return sb.String()
}

func newSOLookupCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup TERM|SO:nnnnnnn...",
		Short: "Resolve term names or accessions",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
				return usageErr(err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := e.terms(cmd)
			if err != nil {
				return err
			}
			var missing []string
			for _, a := range args {
				t, ok := c.Lookup(a)
				if !ok {
					missing = append(missing, a)
					continue
				}
				fmt.Fprint(e.stdout, renderTerm(t))
			}
			if len(missing) > 0 {
				return &ExitError{Code: ExitInvalid, Err: fmt.Errorf("not in %s: %s", c.Name(), strings.Join(missing, ", "))}
			}
			return nil
		},
	}
}

func newSOListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every term of the active table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := e.terms(cmd)
			if err != nil {
				return err
			}
			for _, t := range c.Terms() {
				fmt.Fprintf(e.stdout, "%s\t%s\t%s\n", t.ID(), t.Name, t.Mode)
			}
			return nil
		},
	}
}
