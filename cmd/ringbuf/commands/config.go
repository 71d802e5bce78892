package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haivivi/ringbuf/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and profiles.

A profile is a named set of buffer and workload settings (capacity, chunk
size, timeout, producer and consumer counts) used by demo and bench.

Configuration is stored in ~/.ringbuf/ringbuf/config.yaml`,
}

var configAddProfileCmd = &cobra.Command{
	Use:   "add-profile <name>",
	Short: "Add or replace a profile",
	Long: `Add a profile with the specified name. Unset fields use the built-in
defaults when the profile is used.

Example:
  ringbuf config add-profile slow --capacity 20 --interval 200 --timeout 500
  ringbuf config add-profile burst --capacity 4096 --producers 8 --consumers 4`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := getConfig()
		if err != nil {
			return err
		}
		p := applyProfileFlags(cmd, cli.Profile{})
		if err := cfg.AddProfile(name, &p); err != nil {
			return err
		}

		cli.PrintSuccess("Profile %q added successfully", name)
		return nil
	},
}

var configDeleteProfileCmd = &cobra.Command{
	Use:   "delete-profile <name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := getConfig()
		if err != nil {
			return err
		}
		wasCurrent := cfg.CurrentProfile == name
		if err := cfg.DeleteProfile(name); err != nil {
			return err
		}

		cli.PrintSuccess("Profile %q deleted", name)
		if wasCurrent {
			cli.PrintWarning("No current profile set; commands use the built-in defaults")
		}
		return nil
	},
}

var configUseProfileCmd = &cobra.Command{
	Use:   "use-profile <name>",
	Short: "Set the current profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.UseProfile(name); err != nil {
			return err
		}

		cli.PrintSuccess("Switched to profile %q", name)
		return nil
	},
}

var configGetProfileCmd = &cobra.Command{
	Use:   "get-profile",
	Short: "Display the current profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		if cfg.CurrentProfile == "" {
			cli.PrintInfo("No current profile set")
			return nil
		}

		fmt.Println(cfg.CurrentProfile)
		return nil
	},
}

var configListProfilesCmd = &cobra.Command{
	Use:     "list-profiles",
	Aliases: []string{"get-profiles", "list"},
	Short:   "List all profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		if len(cfg.Profiles) == 0 {
			cli.PrintInfo("No profiles configured")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tCAPACITY\tTIMEOUT\tPRODUCERS\tCONSUMERS")

		for _, name := range cfg.ListProfiles() {
			current := ""
			if name == cfg.CurrentProfile {
				current = "*"
			}
			p := cfg.Profiles[name].WithDefaults()
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n", current, name,
				cli.FormatBytes(int64(p.Capacity)), cli.FormatTimeout(p.Timeout()), p.Producers, p.Consumers)
		}

		w.Flush()
		return nil
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		if outputJSON || outputFile != "" {
			return outputResult(cfg)
		}

		fmt.Printf("Config file: %s\n", cfg.Path())
		fmt.Printf("Current profile: %s\n", cfg.CurrentProfile)
		fmt.Printf("Profiles: %d\n", len(cfg.Profiles))

		for _, name := range cfg.ListProfiles() {
			p := cfg.Profiles[name].WithDefaults()
			fmt.Printf("\n  %s:\n", name)
			fmt.Printf("    Capacity: %d\n", p.Capacity)
			fmt.Printf("    Chunk: %d\n", p.Chunk)
			fmt.Printf("    Timeout: %s\n", cli.FormatTimeout(p.Timeout()))
			fmt.Printf("    Interval: %s\n", cli.FormatDuration(p.Interval()))
			fmt.Printf("    Producers/Consumers: %d/%d\n", p.Producers, p.Consumers)
			fmt.Printf("    Records: %d\n", p.Records)
		}
		return nil
	},
}

func init() {
	addProfileFlags(configAddProfileCmd)

	configCmd.AddCommand(configAddProfileCmd)
	configCmd.AddCommand(configDeleteProfileCmd)
	configCmd.AddCommand(configUseProfileCmd)
	configCmd.AddCommand(configGetProfileCmd)
	configCmd.AddCommand(configListProfilesCmd)
	configCmd.AddCommand(configViewCmd)
}
