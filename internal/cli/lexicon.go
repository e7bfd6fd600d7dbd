package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/courtfirst/breachminer/internal/lexicon"
)

var lexiconOut string

// lexiconCmd represents the lexicon command
var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Inspect or export the phrase lexicon",
	Long: `The lexicon holds every configurable term list: breach phrase patterns
grouped under canonical tags, negation markers, outcome headings and
holding verbs. Mining logic carries none of these terms itself, so the
lexicon is the single place to audit or extend them.`,
}

var lexiconShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the built-in lexicon as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		yamlData, err := yaml.Marshal(lexicon.Default())
		if err != nil {
			return fmt.Errorf("marshal lexicon: %w", err)
		}
		fmt.Print(string(yamlData))
		return nil
	},
}

var lexiconInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in lexicon to a YAML file for editing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(lexiconOut); err == nil {
			return fmt.Errorf("lexicon file already exists: %s", lexiconOut)
		}

		yamlData, err := yaml.Marshal(lexicon.Default())
		if err != nil {
			return fmt.Errorf("marshal lexicon: %w", err)
		}

		header := "# BreachMiner lexicon\n" +
			"# Patterns are case-insensitive regular expressions. Edit freely,\n" +
			"# then pass the file to 'breachminer run --lexicon'.\n\n"

		if err := os.WriteFile(lexiconOut, append([]byte(header), yamlData...), 0o644); err != nil {
			return fmt.Errorf("write lexicon file: %w", err)
		}

		fmt.Printf("✓ Created lexicon: %s\n", lexiconOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lexiconCmd)
	lexiconCmd.AddCommand(lexiconShowCmd)
	lexiconCmd.AddCommand(lexiconInitCmd)

	lexiconInitCmd.Flags().StringVar(&lexiconOut, "out", "lexicon.yaml", "output path")
}
