package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"weddinghall/internal/domain/catalog"
)

func newHallsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "halls",
		Short: "List halls with their estimate dates and tiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(v)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "COMPANY\t%s\n\n", cat.Company().Name)
			fmt.Fprintln(tw, "HALL\tTYPE\tSTANDARD\tADMIN DATES")
			for _, name := range cat.HallNames() {
				hall, err := cat.Hall(name)
				if err != nil {
					return err
				}
				standard := "-"
				if hall.StandardEstimate() != nil {
					standard = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					hall.Name,
					orDash(strings.Join(hall.TypeTags(), ", ")),
					standard,
					orDash(strings.Join(adminDates(hall), ", ")),
				)
			}
			return tw.Flush()
		},
	}
}

func adminDates(h *catalog.Hall) []string {
	var dates []string
	for _, d := range h.Dates() {
		if h.HasAdminOn(d) {
			dates = append(dates, d)
		}
	}
	return dates
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
