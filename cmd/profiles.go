package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/densho/csujadconvert/profile"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage collection profiles",
	Long: `List and inspect collection profiles.

Profiles set the Local ID segment count, externally hosted file types,
vocabulary tables and source labels for a collection. User profiles in
~/.csujadconvert/profiles replace built-in profiles of the same name.`,
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available profiles",
	Args:  argsBetween(0, 0),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry()
		if err != nil {
			return err
		}

		names := registry.List()
		out := cmd.OutOrStdout()
		if len(names) == 0 {
			fmt.Fprintln(out, "No profiles found")
			return nil
		}

		fmt.Fprintln(out, "Available profiles:")
		for _, name := range names {
			p, _ := registry.Get(name)
			desc := ""
			if p.Description != "" {
				desc = " - " + p.Description
			}
			fmt.Fprintf(out, "  %s (%s)%s\n", name, registry.Origin(name), desc)
		}

		return nil
	},
}

var profilesShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show profile details",
	Args:  argsBetween(1, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry()
		if err != nil {
			return err
		}

		p, ok := registry.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown profile: %s", args[0])
		}

		out, err := p.Marshal()
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func loadRegistry() (*profile.Registry, error) {
	registry, err := profile.NewRegistry()
	if err != nil {
		return nil, err
	}
	if err := registry.LoadUserProfiles(); err != nil {
		return nil, fmt.Errorf("loading user profiles: %w", err)
	}
	return registry, nil
}

func init() {
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
}
