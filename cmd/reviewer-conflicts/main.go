// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the reviewer-conflicts CLI.
//
// The commands follow the review workflow: fetch the DBLP archive, match the
// reviewer roster to bibliography names, build the coauthor graph, then
// check review assignments against it.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/reviewer-conflicts/internal/dblp"
	"github.com/pdiddy/reviewer-conflicts/internal/store"
	"github.com/pdiddy/reviewer-conflicts/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the reviewer-conflicts CLI.
var rootCmd = &cobra.Command{
	Use:   "reviewer-conflicts",
	Short: "Detect undisclosed reviewer conflicts from DBLP coauthorship",
	Long: `reviewer-conflicts cross-references a program committee roster against the
DBLP bibliography. A reviewer is flagged for a paper when one of the paper's
authors co-published with the reviewer in the last six years.

Typical workflow:
  reviewer-conflicts fetch
  reviewer-conflicts match hotcrp-users.csv
  reviewer-conflicts coauthors hotcrp-users-mapped.csv
  reviewer-conflicts check hotcrp-authors.csv hotcrp-scores.csv`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./reviewer-conflicts.yaml or ~/.config/reviewer-conflicts/reviewer-conflicts.yaml)")
	pf.String("archive", dblp.DefaultArchivePath, "gzip-compressed DBLP XML archive")
	pf.String("data-dir", store.DefaultDataDir, "directory holding the coauthor graph database and exports")
	pf.Int("current-year", 0, "last year of the coauthor window (default: this year)")
	pf.Int("window-years", types.DefaultWindowYears, "number of years in the coauthor window")
	pf.StringSlice("publication-elements", nil, "extra DBLP elements treated as publications (e.g. incollection)")

	viper.BindPFlag("archive", pf.Lookup("archive"))
	viper.BindPFlag("data_dir", pf.Lookup("data-dir"))
	viper.BindPFlag("current_year", pf.Lookup("current-year"))
	viper.BindPFlag("window_years", pf.Lookup("window-years"))
	viper.BindPFlag("publication_elements", pf.Lookup("publication-elements"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("reviewer-conflicts")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "reviewer-conflicts"))
		}
	}

	viper.SetEnvPrefix("REVIEWER_CONFLICTS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// --- stage configs from viper ---

func bibliographyConfig() types.BibliographyConfig {
	return types.BibliographyConfig{
		ArchivePath:         viper.GetString("archive"),
		PublicationElements: viper.GetStringSlice("publication_elements"),
	}
}

// coauthorConfig resolves the window anchor. The clock is read here and
// nowhere below the CLI.
func coauthorConfig() types.CoauthorConfig {
	year := viper.GetInt("current_year")
	if year == 0 {
		year = time.Now().Year()
	}
	window := viper.GetInt("window_years")
	if window <= 0 {
		window = types.DefaultWindowYears
	}
	workers := viper.GetInt("workers")
	if workers <= 0 {
		workers = 1
	}
	return types.CoauthorConfig{
		CurrentYear: year,
		WindowYears: window,
		Workers:     workers,
		AliasesOnly: viper.GetBool("aliases_only"),
	}
}

func storeConfig() types.StoreConfig {
	return types.StoreConfig{DataDir: viper.GetString("data_dir")}
}

func openStore() (*store.Store, error) {
	return store.NewStore(storeConfig())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
