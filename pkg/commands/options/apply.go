package options

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/kidoers/pkg/family"
)

// SelectionTarget applies to the members picked with --select.
const SelectionTarget = "selection"

// ApplyOptions choose who a dropped task or group applies to.
type ApplyOptions struct {
	ApplyTo string
	Select  []string
}

func AddApplyArgs(cmd *cobra.Command, o *ApplyOptions) {
	ids := make([]string, 0, 4)
	for _, opt := range family.ApplyOptions() {
		ids = append(ids, opt[0])
	}
	cmd.Flags().StringVar(&o.ApplyTo, "apply-to", "",
		fmt.Sprintf("Who to apply to: %s or a member. Defaults to --member only.", strings.Join(ids, ", ")))
	cmd.Flags().StringSliceVar(&o.Select, "select", nil,
		"Apply to these members (names or ids).")
}

// IsOption reports whether ApplyTo names one of the fixed choices.
func (o *ApplyOptions) IsOption() bool {
	for _, opt := range family.ApplyOptions() {
		if opt[0] == o.ApplyTo {
			return true
		}
	}
	return false
}

// Target is the apply target before member names are resolved.
func (o *ApplyOptions) Target() string {
	switch {
	case o.ApplyTo != "":
		return o.ApplyTo
	case len(o.Select) > 0:
		return SelectionTarget
	}
	return family.ApplyNone
}
