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
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// config holds the CLI defaults, overridable per invocation by flags.
type config struct {
	Charset string `toml:"charset"`
	Lenient bool   `toml:"lenient"`
	Verbose bool   `toml:"verbose"`
}

// loadConfig reads the TOML config file. A missing file yields defaults; an
// explicitly passed path must exist.
func loadConfig(path string) (*config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := os.UserConfigDir()
		if err != nil {
			return &config{}, nil
		}
		path = filepath.Join(dir, "vcard", "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &config{}, nil
		}
		return nil, err
	}

	var cfg config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
