package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix prefixes the environment variables that override flags, e.g.
// COORDSET_TUPLES for --tuples.
const envPrefix = "COORDSET"

// subCommand pairs a command with the configuration its flags are bound to.
// Values resolve flag first, then environment, then config file.
type subCommand struct {
	Cmd  *cobra.Command
	Conf *viper.Viper
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "coordset",
		Short: "Stream and index packed coordinate sets",
		Long: `
coordset generates packed coordinate buffers and runs them through the
coordset library: sequential and parallel streams, envelopes, validation
and R-tree queries. It is meant for benchmarking and smoke-testing.
`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "",
		"Configuration file. Takes precedence over default values, but is "+
			"overridden by values set with environment variables and flags.")
	rootConf := viper.New()
	_ = rootConf.BindPFlags(root.PersistentFlags())

	subcommands := []*subCommand{newScanCmd(), newIndexCmd()}
	for _, sc := range subcommands {
		root.AddCommand(sc.Cmd)
		_ = sc.Conf.BindPFlags(sc.Cmd.Flags())
		_ = sc.Conf.BindPFlags(root.PersistentFlags())
		sc.Conf.SetEnvPrefix(envPrefix)
		sc.Conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		sc.Conf.AutomaticEnv()
	}

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg := rootConf.GetString("config")
		if cfg == "" {
			return nil
		}
		for _, sc := range subcommands {
			sc.Conf.SetConfigFile(cfg)
			if err := sc.Conf.ReadInConfig(); err != nil {
				return errors.Wrapf(err, "reading config %s", cfg)
			}
		}
		return nil
	}
	return root
}
