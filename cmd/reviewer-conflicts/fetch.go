// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/reviewer-conflicts/internal/fetch"
	"github.com/pdiddy/reviewer-conflicts/pkg/types"
)

const defaultFetchTimeout = 30 * time.Minute

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the DBLP archive",
	Long: `Fetch downloads dblp.xml.gz to the configured archive path. The file is
written to a temporary name and moved into place only when the download is
complete. With --verify the published .md5 checksum is checked first.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("url", fetch.DefaultURL, "archive URL")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP timeout for the whole download (default 30m)")
	fetchCmd.Flags().Bool("verify", true, "verify the download against the published MD5 checksum")
	fetchCmd.Flags().Int("max-retries", 5, "retries on HTTP 429/503")

	viper.BindPFlag("fetch.url", fetchCmd.Flags().Lookup("url"))
	viper.BindPFlag("fetch.timeout", fetchCmd.Flags().Lookup("timeout"))
	viper.SetDefault("fetch.user_agent", fetch.DefaultUserAgent)

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	verify, _ := cmd.Flags().GetBool("verify")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")

	timeout := viper.GetDuration("fetch.timeout")
	if timeout == 0 {
		timeout = defaultFetchTimeout
	}

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: viper.GetString("fetch.user_agent"),
		},
		URL:        viper.GetString("fetch.url"),
		Dest:       bibliographyConfig().ArchivePath,
		VerifyMD5:  verify,
		MaxRetries: maxRetries,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	_, err := fetch.Archive(context.Background(), client, cfg, os.Stdout)
	return err
}
