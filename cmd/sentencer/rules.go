package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sentencer/internal/sentencing"
	"sentencer/internal/sentencing/ruledoc"
	"sentencer/internal/sentencing/service"
)

var rulesFormat string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and validate rule documents",
}

var rulesDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the active rule tables",
	Long: `Print the active rule tables as a rule document. Without a configured
rules path this is the compiled-in rule set, which makes a convenient
starting point for a custom document.

Examples:
  sentencer rules dump > rules.yaml
  sentencer rules dump --format toml`,
	RunE: runRulesDump,
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a rule document",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesCheck,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesDumpCmd, rulesCheckCmd)
	rulesDumpCmd.Flags().StringVar(&rulesFormat, "format", "yaml", "Output format: yaml, toml or json")
}

func runRulesDump(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := ruledoc.ParseFormat(rulesFormat)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg.Engine)
	if err != nil {
		return err
	}
	return ruledoc.Encode(cmd.OutOrStdout(), ruledoc.FromRegistry(engine.Registry()), format)
}

func runRulesCheck(cmd *cobra.Command, args []string) error {
	reg, err := ruledoc.LoadRegistry(args[0])
	if err != nil {
		return err
	}
	version, err := service.RulesVersion(sentencing.NewEngine(sentencing.WithRegistry(reg)))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d rule sets, version %s)\n", args[0], len(reg.RuleSets()), version)
	return nil
}
