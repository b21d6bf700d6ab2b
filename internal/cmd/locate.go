package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/proofdriver/internal/install"
)

// NewLocateCommand creates the locate command
func NewLocateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Show the installation proofdriver runs from",
		Long: `Print the detected installation layout and the location of every
component the driver uses. Fails if a required component is missing.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: runLocate,
	}

	addCommonFlags(cmd)

	return cmd
}

func runLocate(cmd *cobra.Command, _ []string) error {
	if _, _, err := prepare(cmd); err != nil {
		return err
	}

	paths, err := locate()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Installation:    %s\n", paths.Topology)
	fmt.Fprintf(out, "Compiler:        %s\n", paths.Compiler)
	fmt.Fprintf(out, "Support library: %s\n", paths.SupportLibC)
	for _, kind := range []install.LibraryKind{install.LibraryDefault, install.LibraryPlayback, install.LibraryNoCore} {
		lib, err := paths.Library(kind)
		if err != nil {
			fmt.Fprintf(out, "Library %-13s missing (%v)\n", kind.String()+":", err)
			continue
		}
		fmt.Fprintf(out, "Library %-13s %s\n", kind.String()+":", lib)
	}

	tool, err := paths.BuildTool()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Build tool:      %s\n", tool)
	return nil
}
