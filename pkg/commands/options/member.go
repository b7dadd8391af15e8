package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/kidoers/pkg/family"
)

// MemberOptions selects the member a command acts for.
type MemberOptions struct {
	Member string
}

func AddMemberArgs(cmd *cobra.Command, o *MemberOptions) {
	cmd.Flags().StringVarP(&o.Member, "member", "m", "",
		"Member name or id.")
}

// MemberDetails are the fields of a new member.
type MemberDetails struct {
	Role  string
	Color string
	Age   int
}

func AddMemberDetailArgs(cmd *cobra.Command, o *MemberDetails) {
	cmd.Flags().StringVar(&o.Role, "role", string(family.Child),
		"One of parent or child.")
	cmd.Flags().StringVar(&o.Color, "color", "",
		"Color tag shown on the calendar.")
	cmd.Flags().IntVar(&o.Age, "age", 0,
		"Age of a child.")
}

// Member builds the member named name.
func (o *MemberDetails) Member(name string) (family.Member, error) {
	role, err := family.ParseRole(o.Role)
	if err != nil {
		return family.Member{}, err
	}
	m := family.Member{Name: name, Role: role, Color: o.Color}
	if o.Age > 0 {
		age := o.Age
		m.Age = &age
	}
	return m, nil
}
