package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/borderdrill/borderdrill/pkg/config"
	"github.com/spf13/cobra"
)

func newPersonasCmd() *cobra.Command {
	var (
		configPath string
		reveal     bool
	)

	cmd := &cobra.Command{
		Use:   "personas",
		Short: "List traveler personas",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			registry, err := loadRegistry(cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			if reveal {
				fmt.Fprintln(w, "ID\tNAME\tRED FLAGS")
				for _, p := range registry.All() {
					fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, strings.Join(p.RedFlags, ", "))
				}
				return w.Flush()
			}
			fmt.Fprintln(w, "ID\tNAME")
			for _, p := range registry.Summaries() {
				fmt.Fprintf(w, "%s\t%s\n", p.ID, p.Name)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "show red flags (instructor view)")
	return cmd
}
