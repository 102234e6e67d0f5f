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
	"os"
	"path/filepath"
	"testing"
)

func TestPersistAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigDir, ConfigFile)
	c := NewDefaultConfig()
	c.SetPath(path)
	c.Serial.Port = "/dev/ttyHS0"
	c.Enable = []string{"LTE_RRC_Serv_Cell_Info", "LTE_NAS_EMM_State"}
	c.Export = &ExportConfig{Path: "/tmp/out.bin", Types: []string{"LTE_NAS_EMM_State"}}
	if err := c.Persist(false); err != nil {
		t.Fatal(err)
	}
	var exists ErrConfigFileExists
	if err := c.Persist(false); !errors.As(err, &exists) || exists.Path != path {
		t.Fatalf("err = %v", err)
	}
	if err := c.Persist(true); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Serial.Port != "/dev/ttyHS0" || loaded.Serial.Baud != DefaultBaudRate {
		t.Fatalf("serial = %+v", loaded.Serial)
	}
	if len(loaded.Enable) != 2 || loaded.Export.Types[0] != "LTE_NAS_EMM_State" {
		t.Fatalf("config = %+v", loaded)
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "none"))
	if err != nil {
		t.Fatal(err)
	}
	if c.API.Port != DefaultAPIPort || c.LogLevel != DefaultLogLevel {
		t.Fatalf("config = %+v", c)
	}
	if c.APIURL() != "http://127.0.0.1:8003" {
		t.Fatalf("url = %s", c.APIURL())
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	data := "log_level: debug\napi:\n  port: 9000\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.LogLevel != "debug" || c.API.Port != 9000 || c.API.Address != DefaultAPIAddress {
		t.Fatalf("config = %+v %+v", c, c.API)
	}
	if c.Serial.Port != DefaultSerialPort {
		t.Fatalf("serial = %+v", c.Serial)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	cases := []string{
		"serial: [",
		"api:\n  port: 70000\n",
	}
	for _, data := range cases {
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		var invalid ErrConfigInvalid
		if !errors.As(err, &invalid) {
			t.Fatalf("%q: err = %v", data, err)
		}
	}
}
