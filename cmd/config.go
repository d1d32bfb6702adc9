package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/franq/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage franq configuration",
	Long:  `Read and initialise franq configuration stored in config.json.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a template config.json in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := globalFlags.ConfigFile
		if path == "" {
			path = config.DefaultConfigFile
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (delete it first to re-initialise)", path)
		}
		if err := config.WriteFile(path, config.Template()); err != nil {
			return err
		}
		fmt.Printf("✓ Created %s\n", path)
		fmt.Println("  Replace the placeholder ClientID / ClientKEY values with your")
		fmt.Println("  LiveIQ credentials, one accounts entry per franchisee.")
		return nil
	},
}

var configGetShowSecrets bool

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(globalFlags.ConfigFile)
		if err != nil {
			return err
		}

		type accountOut struct {
			Name      string `json:"name"`
			ClientID  string `json:"client_id"`
			ClientKEY string `json:"client_key"`
		}
		accounts := make([]accountOut, len(cfg.Accounts))
		for i, a := range cfg.Accounts {
			id, key := a.ClientID, a.ClientKEY
			if !configGetShowSecrets {
				id, key = config.Redact(id), config.Redact(key)
			}
			accounts[i] = accountOut{Name: a.Name, ClientID: id, ClientKEY: key}
		}

		if resolveFormat(cfg.Format) == "json" {
			out := map[string]any{
				"accounts":    accounts,
				"base_url":    cfg.BaseURL,
				"timeout":     cfg.Timeout.String(),
				"concurrency": cfg.Concurrency,
				"log_file":    cfg.LogFile,
				"db_path":     cfg.DBPath,
				"config_file": cfg.ConfigPath,
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		w := cmd.OutOrStdout()
		printSimpleTable(w, []string{"ACCOUNT", "CLIENT ID", "CLIENT KEY"}, func(add func(...string)) {
			for _, a := range accounts {
				add(a.Name, a.ClientID, a.ClientKEY)
			}
		})
		fmt.Fprintf(w, "\nbase_url     %s\n", cfg.BaseURL)
		fmt.Fprintf(w, "timeout      %s\n", cfg.Timeout)
		fmt.Fprintf(w, "concurrency  %d\n", cfg.Concurrency)
		fmt.Fprintf(w, "log_file     %s\n", cfg.LogFile)
		fmt.Fprintf(w, "db_path      %s\n", cfg.DBPath)
		fmt.Fprintf(w, "config_file  %s\n", cfg.ConfigPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configGetCmd)

	configGetCmd.Flags().BoolVar(&configGetShowSecrets, "show-secrets", false,
		"show credentials in plain text")
}
