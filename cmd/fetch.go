package main

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lookup-cli/internal/fetcher"
)

var fetchDir string

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>...",
	Short: "Download remote input files",
	Long:  "Downloads one or more files over HTTP(S) or FTP into the output directory, concurrently, so they can be validated and run locally.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		httpFetcher := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			Timeout:   time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			RateLimit: cfg.Fetch.RateLimit,
		})
		ftpFetcher := fetcher.NewFTPFetcher(fetcher.FTPOptions{
			Timeout: time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		})

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(cfg.Fetch.Concurrency, 1))

		for _, rawURL := range args {
			g.Go(func() error {
				dest, err := destPath(rawURL, fetchDir)
				if err != nil {
					return err
				}

				var f fetcher.Fetcher = httpFetcher
				if strings.HasPrefix(rawURL, "ftp://") {
					f = ftpFetcher
				}

				n, err := f.DownloadToFile(gctx, rawURL, dest)
				if err != nil {
					return eris.Wrapf(err, "fetch %s", rawURL)
				}
				zap.L().Info("fetched", zap.String("url", rawURL), zap.String("dest", dest), zap.Int64("bytes", n))
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d bytes)\n", rawURL, dest, n)
				return nil
			})
		}

		return g.Wait()
	},
}

// destPath derives a local filename from the URL's last path segment.
func destPath(rawURL, dir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", eris.Wrapf(err, "fetch: parse url %s", rawURL)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", eris.Errorf("fetch: cannot derive a filename from %s", rawURL)
	}
	return path.Join(dir, name), nil
}

func init() {
	fetchCmd.Flags().StringVar(&fetchDir, "dir", ".", "directory to save downloads into")
	rootCmd.AddCommand(fetchCmd)
}
