/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

type APIConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

type ExportConfig struct {
	Path  string   `yaml:"path,omitempty"`
	Types []string `yaml:"types,omitempty"`
}

type Config struct {
	LogLevel string        `yaml:"log_level"`
	LogFile  string        `yaml:"log_file,omitempty"`
	Serial   *SerialConfig `yaml:"serial"`
	API      *APIConfig    `yaml:"api"`
	DBPath   string        `yaml:"db_path"`
	Export   *ExportConfig `yaml:"export,omitempty"`
	// Enable lists the log types enabled when the daemon starts
	Enable   []string `yaml:"enable,omitempty"`
	filepath string
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return os.WriteFile(c.filepath, data, 0644)
}

func (c *Config) LoadConfig() error {
	data, err := os.ReadFile(c.filepath)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return ErrConfigInvalid{Path: c.filepath, Err: err}
	}
	return c.Validate()
}

// Validate checks values a config file may have broken.
func (c *Config) Validate() error {
	if c.Serial == nil || c.API == nil {
		return ErrConfigInvalid{Path: c.filepath, Err: errors.New("serial and api sections are required")}
	}
	if c.Serial.Baud < 0 {
		return ErrConfigInvalid{Path: c.filepath, Err: fmt.Errorf("negative baud rate %d", c.Serial.Baud)}
	}
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return ErrConfigInvalid{Path: c.filepath, Err: fmt.Errorf("api port %d out of range", c.API.Port)}
	}
	return nil
}

func (c *Config) Path() string {
	return c.filepath
}

func (c *Config) SetPath(path string) {
	c.filepath = path
}

// APIURL is the base URL clients use to reach the control server.
func (c *Config) APIURL() string {
	address := c.API.Address
	if address == "" || address == "0.0.0.0" {
		address = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d", address, c.API.Port)
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func DefaultDBPath() string {
	return filepath.Join(filepath.Dir(DefaultConfigPath()), DBFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Serial: &SerialConfig{
			Port: DefaultSerialPort,
			Baud: DefaultBaudRate,
		},
		API: &APIConfig{
			Address: DefaultAPIAddress,
			Port:    DefaultAPIPort,
		},
		DBPath:   DefaultDBPath(),
		Export:   &ExportConfig{},
		filepath: DefaultConfigPath(),
	}
}

// Load reads the config file at path on top of the defaults. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	c := NewDefaultConfig()
	if path != "" {
		c.filepath = path
	}
	err := c.LoadConfig()
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	return c, err
}
