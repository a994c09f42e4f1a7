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

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count [file...]",
	Short: "Count entries and properties in vCard files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCount,
}

func init() {
	rootCmd.AddCommand(countCmd)
}

func runCount(cmd *cobra.Command, args []string) error {
	totalEntries, totalProperties := 0, 0
	for _, path := range args {
		c, err := parseFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		properties := 0
		for _, e := range c.entries {
			properties += len(e.Properties)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries, %d properties\n",
			path, len(c.entries), properties)
		totalEntries += len(c.entries)
		totalProperties += properties
	}
	if len(args) > 1 {
		fmt.Fprintf(cmd.OutOrStdout(), "total: %d entries, %d properties\n",
			totalEntries, totalProperties)
	}
	return nil
}
