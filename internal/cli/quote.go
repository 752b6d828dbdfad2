package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"weddinghall/internal/domain/quote"
)

const (
	outputText = "text"
	outputJSON = "json"
)

func newQuoteCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Print the cost breakdown for a selection",
		Example: `  quotecalc quote --catalog maison.json --hall A --meal 111=120 --option 212
  QUOTECALC_CATALOG=maison.json quotecalc quote --tier standard --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd, v)
		},
	}

	cmd.Flags().String("hall", "", "hall name (default: first hall)")
	cmd.Flags().String("date", "", "event date YYYY-MM-DD (default: first date with a discounted estimate)")
	cmd.Flags().String("tier", "", "standard or admin (default: admin when available)")
	cmd.Flags().StringSlice("meal", nil, "meal count as id=count, repeatable")
	cmd.Flags().StringSlice("option", nil, "optional item id to include, repeatable")
	cmd.Flags().StringP("output", "o", outputText, "output format: text or json")
	_ = v.BindPFlags(cmd.Flags())

	return cmd
}

func runQuote(cmd *cobra.Command, v *viper.Viper) error {
	format := strings.ToLower(v.GetString("output"))
	if format != outputText && format != outputJSON {
		return fmt.Errorf("unknown output format %q", format)
	}

	cat, err := loadCatalog(v)
	if err != nil {
		return err
	}
	meals, err := parseMealFlags(v.GetStringSlice("meal"))
	if err != nil {
		return err
	}
	options, err := parseOptionFlags(v.GetStringSlice("option"))
	if err != nil {
		return err
	}

	req := quote.CalculateRequest{
		Company:    cat.Company().Name,
		Hall:       v.GetString("hall"),
		Date:       v.GetString("date"),
		Tier:       v.GetString("tier"),
		MealCounts: meals,
		OptionIDs:  options,
	}
	view, err := quote.NewSession(cat, mealPolicy(v)).ApplyAll(req.Commands()...)
	if err != nil {
		return err
	}
	view.SessionID = ""

	if format == outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	return renderQuote(cmd.OutOrStdout(), view)
}
