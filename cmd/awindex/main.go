// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the awindex CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/awindex/awindex/internal/secrets"
	"github.com/awindex/awindex/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value for
// key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the awindex CLI.
var rootCmd = &cobra.Command{
	Use:   "awindex",
	Short: "Aggregate link metadata into a searchable index",
	Long: `awindex harvests bibliographic and link metadata from configured sources
(awesome-list markdown documents, Zotero libraries, Zenodo communities, and
previously exported JSONL files), normalizes every item into one record
shape, and exports the record set as search-index records, line-delimited
records, a SQLite database, CSV, and a static HTML page.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./awindex.yaml or ~/.config/awindex/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("awindex")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "awindex"))
		}
	}

	viper.SetEnvPrefix("AWINDEX")
	viper.AutomaticEnv()

	viper.SetDefault("fetch.timeout", 30*time.Second)
	viper.SetDefault("fetch.user_agent", "awindex/"+version)
	viper.SetDefault("fetch.cache_path", filepath.Join(".cache", "fetch.db"))
	viper.SetDefault("fetch.cache_ttl", 24*time.Hour)
	viper.SetDefault("fetch.max_retries", 5)
	viper.SetDefault("export.output_dir", "output")
	viper.SetDefault("export.site_title", "Awesome Index")
	viper.SetDefault("sources_file", "sources.yaml")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the run configuration from viper.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("fetch.timeout"),
				UserAgent: viper.GetString("fetch.user_agent"),
			},
			CachePath:  viper.GetString("fetch.cache_path"),
			CacheTTL:   viper.GetDuration("fetch.cache_ttl"),
			MaxRetries: viper.GetInt("fetch.max_retries"),
		},
		Export: types.ExportConfig{
			OutputDir: viper.GetString("export.output_dir"),
			SiteTitle: viper.GetString("export.site_title"),
		},
		SourcesFile: viper.GetString("sources_file"),
		Strict:      viper.GetBool("strict"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
