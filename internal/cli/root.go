package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BerylCAtieno/dataset-summarizer-api/internal/utils"
)

const envPrefix = "CSVSUMMARIZE"

// NewRootCmd builds the csvsummarize command tree. Flags can also be set
// through CSVSUMMARIZE_* environment variables, e.g. CSVSUMMARIZE_TOKEN.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "csvsummarize",
		Short:         "Profile CSV files and describe them in plain language",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	_ = v.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))

	newLogger := func() *utils.Logger {
		return utils.NewLoggerTo(errOut, v.GetString("log-level"))
	}

	root.AddCommand(newSummarizeCmd(v, newLogger))
	root.AddCommand(newPreviewCmd(v))
	return root
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := NewRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
