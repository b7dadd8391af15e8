package options

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/kidoers/pkg/printers"
)

// OutputOptions adds --yaml next to the --json flag and error handling of
// cli-base.
type OutputOptions struct {
	base.OutputOptions
	YAML bool
}

func AddOutputArgs(cmd *cobra.Command, o *OutputOptions) {
	base.AddOutputArg(cmd, &o.OutputOptions)
	cmd.Flags().BoolVar(&o.YAML, "yaml", false,
		"Output as YAML.")
}

// Format is the machine format asked for, or printers.Text.
func (o *OutputOptions) Format() printers.Format {
	switch {
	case o.JSON:
		return printers.JSON
	case o.YAML:
		return printers.YAML
	}
	return printers.Text
}
