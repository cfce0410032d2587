// Package main provides the CLI entry point for sheetmd-go.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ukaji3/sheetmd-go/pkg/sheetmd"
)

var (
	outputDir string
	encoding  string
)

// rootCmd converts inputs directly; serve is a subcommand.
var rootCmd = &cobra.Command{
	Use:   "sheetmd [input...]",
	Short: "Convert Excel/CSV files to Markdown",
	Long: `sheetmd converts spreadsheet files (.xlsx, .xls, .csv) into per-sheet
Markdown documents. Embedded images are extracted as sibling files and
referenced from the Markdown. Inputs may be files or directories;
directories are scanned non-recursively for supported files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "output", "Output root directory")
	rootCmd.Flags().StringVar(&encoding, "encoding", "", "Force a CSV text encoding instead of auto-detecting")
}

func initConfig() {
	viper.SetConfigName("sheetmd")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("SHEETMD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	var inputs []string
	for _, arg := range args {
		found, err := sheetmd.CollectInputs(arg)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Fprintf(os.Stderr, "no supported files in %s\n", arg)
			continue
		}
		inputs = append(inputs, found...)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("nothing to convert")
	}

	opts := sheetmd.Options{Encoding: encoding}
	batch := sheetmd.ConvertBatch(inputs, outputDir, opts)

	for _, a := range batch.Artifacts {
		fmt.Printf("wrote: %s (%s)\n", a.Path, a.Size)
	}
	for _, warn := range batch.Warnings {
		if warn.Sheet != "" {
			fmt.Fprintf(os.Stderr, "warning: [%s] %s\n", warn.Sheet, warn.Message)
		} else {
			fmt.Fprintf(os.Stderr, "warning: %s\n", warn.Message)
		}
	}
	for _, convErr := range batch.Errors {
		fmt.Fprintf(os.Stderr, "failed:  %s (%s)\n", convErr.Input, convErr.Message)
	}

	fmt.Printf("\nBatch summary: %d artifacts, %d warnings, %d failed (inputs: %d)\n",
		len(batch.Artifacts), len(batch.Warnings), len(batch.Errors), len(inputs))

	if len(batch.Errors) > 0 && len(batch.Artifacts) == 0 {
		return fmt.Errorf("all inputs failed")
	}
	return nil
}

func main() {
	// A .env file may carry SHEETMD_* settings; absence is fine.
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
