package cli

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BerylCAtieno/dataset-summarizer-api/internal/analyzer"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/extractor"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/identity"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/utils"
)

func newSummarizeCmd(v *viper.Viper, newLogger func() *utils.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize <file>",
		Short: "Print the narrative summary of a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			res, err := ingestFile(args[0])
			if err != nil {
				return err
			}
			logger.Info("Dataset loaded", "file", args[0], "encoding", res.Encoding, "rows", res.Table.Rows)

			opts := analyzer.Options{IdentityToken: v.GetString("token")}
			if seed := v.GetUint64("seed"); seed != 0 {
				opts.Rand = rand.New(rand.NewPCG(seed, seed))
			}
			if opts.IdentityToken != "" {
				opts.Identity = identity.NewGitHubClient(v.GetString("github-url"), v.GetDuration("timeout"), logger)
			}

			summary := analyzer.Profile(cmd.Context(), res.Table, opts)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), summary.String())
			return err
		},
	}

	f := cmd.Flags()
	f.String("token", "", "GitHub token used to name the requester")
	f.Uint64("seed", 0, "seed for sampling text values (0 picks a random seed)")
	f.String("github-url", identity.DefaultGitHubURL, "GitHub API base URL")
	f.Duration("timeout", defaultIdentityTimeout, "timeout for the GitHub lookup")
	for _, name := range []string{"token", "seed", "github-url", "timeout"} {
		_ = v.BindPFlag(name, f.Lookup(name))
	}

	return cmd
}

func ingestFile(path string) (*extractor.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	res, err := extractor.Ingest(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return res, nil
}
