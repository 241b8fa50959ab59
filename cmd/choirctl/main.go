// Command choirctl manages praise nights through the choir API.
package main

import (
	"fmt"
	"os"

	"github.com/PraiseNight/apiclient"
	"github.com/spf13/cobra"
)

var (
	// configFile is set by the --config flag.
	configFile string

	// client is built from the loaded configuration before any data command runs.
	client *apiclient.Client
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "choirctl",
	Short: "choirctl manages praise nights, songs and categories",
	Long: `choirctl talks to the choir API. It reads CHOIR_API_URL and
CHOIR_ACCESS_KEY from the environment or from config.yaml.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initClient,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./config.yaml or ~/.choirctl/config.yaml)")

	rootCmd.AddCommand(pagesCmd)
	rootCmd.AddCommand(songsCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(watchCmd)
}

func initClient(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" {
		return nil
	}

	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	client = apiclient.New(cfg.APIURL, cfg.AccessKey)
	return nil
}
