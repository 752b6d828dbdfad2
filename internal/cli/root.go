// Package cli implements quotecalc, an offline calculator that prices a
// catalog file without the API server.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "QUOTECALC"

// NewRootCmd builds the command tree. Each invocation gets its own viper
// instance so flags, env and config files never leak between runs.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "quotecalc",
		Short: "Price wedding hall estimates from a catalog file",
		Long: `quotecalc loads a wedding company catalog (the same JSON the API imports),
resolves a hall, date and tier selection and prints the cost breakdown.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile, cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().String("catalog", "", "path to the catalog JSON file")
	root.PersistentFlags().StringSlice("exclude-category", nil, "meal categories that are never billed (default 소인, 음주류, child, beverage)")
	_ = v.BindPFlags(root.PersistentFlags())

	root.AddCommand(newQuoteCmd(v), newHallsCmd(v))
	return root
}

func initConfig(v *viper.Viper, cfgFile string, stderr io.Writer) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	fmt.Fprintln(stderr, "Using config file:", v.ConfigFileUsed())
	return nil
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
