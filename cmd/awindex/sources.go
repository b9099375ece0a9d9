package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/awindex/awindex/internal/sources"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Validate and list the configured sources",
	Long: `Sources loads the sources file, validates every descriptor, and prints
a table of the configured sources without fetching anything.`,
	RunE: runSources,
}

func init() {
	sourcesCmd.Flags().String("sources", "", "sources file (default: sources.yaml)")

	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	path := viperSourcesFile()
	if v, _ := cmd.Flags().GetString("sources"); v != "" {
		path = v
	}

	srcs, err := sources.Load(path)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tHOMEPAGE")
	for _, src := range srcs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", src.Name, src.Type, src.Homepage)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d sources configured\n", len(srcs))
	return nil
}

func viperSourcesFile() string {
	return pipelineConfig().SourcesFile
}
