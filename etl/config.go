/*
 * config.go, part of goqchem.
 *
 *
 * Copyright 2016 Esteban Gampel <egampel{at}gmailDOTcom>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package etl

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//STDIN and STDOUT are special file names that select the standard
//streams instead of a real file.
const (
	STDIN  = "STDIN"
	STDOUT = "STDOUT"
)

//SourceConfig describes one input stream and the transform applied
//to it.
type SourceConfig struct {
	File      string                 `yaml:"file"`
	Transform string                 `yaml:"transform"`
	Params    map[string]interface{} `yaml:"params"`
}

//TargetConfig describes the output stream shared by all sources.
type TargetConfig struct {
	File  string `yaml:"file"`
	Batch int    `yaml:"batch"`
}

//Config is the YAML layout of a pipeline: a list of sources feeding
//one target.
type Config struct {
	Sources []SourceConfig `yaml:"sources"`
	Target  TargetConfig   `yaml:"target"`
}

//LoadConfig reads a YAML pipeline description. Values may reference
//environment variables with ${NAME}; a .env file next to the working
//directory, if present, is loaded first.
func LoadConfig(filename string) (*Config, error) {
	godotenv.Load() //nolint:errcheck - a missing .env file is fine
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	expanded := os.Expand(string(raw), func(name string) string {
		return os.Getenv(name)
	})
	return parseConfig([]byte(expanded))
}

func parseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("etl config: missing section: sources")
	}
	if c.Target.File == "" {
		return fmt.Errorf("etl config: target must have a file")
	}
	for i, s := range c.Sources {
		if s.File == "" {
			return fmt.Errorf("etl config: source %d must have a file", i)
		}
		if s.Transform == "" {
			return fmt.Errorf("etl config: source %d must name a transform", i)
		}
	}
	return nil
}
