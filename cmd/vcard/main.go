//
// Copyright (c) 2023 WillAbides
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command vcard inspects vCard 2.1 files: dump prints the decoded entries,
// count summarises them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/willabides/vcard/internal/logger"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

var (
	flagVerbose bool
	flagLenient bool
	flagCharset string
	flagConfig  string

	cfg *config
)

var rootCmd = &cobra.Command{
	Use:           "vcard",
	Short:         "Inspect vCard 2.1 files",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(flagConfig)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("verbose") {
			cfg.Verbose = flagVerbose
		}
		if cmd.Flags().Changed("lenient") {
			cfg.Lenient = flagLenient
		}
		if cmd.Flags().Changed("charset") {
			cfg.Charset = flagCharset
		}
		logger.SetVerbose(cfg.Verbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&flagLenient, "lenient", false, "Skip garbage before BEGIN:VCARD")
	rootCmd.PersistentFlags().StringVar(&flagCharset, "charset", "", "Intermediate charset (IANA name, default ISO-8859-1)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/vcard/config.toml)")
}

// resolveCharset maps an IANA charset name to an encoding. An empty name
// selects the parser's default intermediate charset.
func resolveCharset(name string) (encoding.Encoding, error) {
	if name == "" {
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown charset %q", name)
	}
	return enc, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "vcard:", err)
		os.Exit(1)
	}
}
