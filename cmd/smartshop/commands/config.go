package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/smartshop-ai/smartshop/config"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage SmartShop configuration",
	Long: `Display and manage SmartShop configuration.

Configuration sources (in order of precedence):
1. Environment variables (SMARTSHOP_* prefix)
2. Project config (./smartshop.toml, found by walking up)
3. User config (~/.smartshop/config.toml)
4. Default values

Examples:
  smartshop config show                 # Show effective configuration
  smartshop config show --format json   # Show configuration as JSON
  smartshop config init                 # Write a default smartshop.toml`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Long:  "Display the effective SmartShop configuration from all sources",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long:  "Write smartshop.toml with default values. Refuses to overwrite an existing file.",
	RunE:  runConfigInit,
}

var (
	configFormatFlag string
	configPathFlag   string
)

func init() {
	configShowCmd.Flags().StringVar(&configFormatFlag, "format", "toml", "Output format: toml, json")
	configInitCmd.Flags().StringVar(&configPathFlag, "path", "smartshop.toml", "Where to write the config file")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch configFormatFlag {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
		fmt.Println(string(data))

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config to TOML: %w", err)
		}
		fmt.Printf("# SmartShop configuration\n%s", string(data))

	default:
		return fmt.Errorf("unsupported format: %s (supported: toml, json)", configFormatFlag)
	}

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.WriteDefault(configPathFlag); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", configPathFlag)
	return nil
}
