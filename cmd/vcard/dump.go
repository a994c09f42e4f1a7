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
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/willabides/vcard"
)

var flagJSON bool

var dumpCmd = &cobra.Command{
	Use:   "dump [file...]",
	Short: "Print the decoded entries of vCard files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().BoolVar(&flagJSON, "json", false, "Emit JSON instead of styled text")
	rootCmd.AddCommand(dumpCmd)
}

var (
	entryHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	propNameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	paramStyle       = lipgloss.NewStyle().Faint(true)
	binaryStyle      = lipgloss.NewStyle().Italic(true).Faint(true)
)

func runDump(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		c, err := parseFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if flagJSON {
			if err := dumpJSON(cmd, c); err != nil {
				return err
			}
			continue
		}
		dumpStyled(cmd, path, c)
	}
	return nil
}

func parseFile(path string) (*collector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	enc, err := resolveCharset(cfg.Charset)
	if err != nil {
		return nil, err
	}

	parser := vcard.NewParser()
	parser.SetLenient(cfg.Lenient)
	if enc != nil {
		parser.SetIntermediateEncoding(enc)
	}
	c := &collector{}
	parser.AddInterpreter(c)
	if err := parser.Parse(f); err != nil {
		return nil, err
	}
	return c, nil
}

func dumpJSON(cmd *cobra.Command, c *collector) error {
	out := json.NewEncoder(cmd.OutOrStdout())
	out.SetIndent("", "  ")
	return out.Encode(c.entries)
}

func dumpStyled(cmd *cobra.Command, path string, c *collector) {
	w := cmd.OutOrStdout()
	for i, e := range c.entries {
		indent := strings.Repeat("  ", e.Depth)
		fmt.Fprintln(w, indent+entryHeaderStyle.Render(fmt.Sprintf("%s entry %d", path, i+1)))
		for _, property := range e.Properties {
			name := property.Name
			if len(property.Groups) > 0 {
				name = strings.Join(property.Groups, ".") + "." + name
			}
			line := indent + "  " + propNameStyle.Render(name)
			if len(property.Params) > 0 {
				var params []string
				for _, param := range property.Params {
					params = append(params, param.Name+"="+param.Value)
				}
				line += " " + paramStyle.Render("["+strings.Join(params, " ")+"]")
			}
			switch {
			case property.Bytes != nil:
				line += " " + binaryStyle.Render(fmt.Sprintf("<%d bytes>", len(property.Bytes)))
			case property.Values == nil:
				line += " " + binaryStyle.Render("<dropped>")
			default:
				var values []string
				for _, value := range property.Values {
					values = append(values, recodeValue(value, property.Charset()))
				}
				line += " " + strings.Join(values, "; ")
			}
			fmt.Fprintln(w, line)
		}
	}
}
