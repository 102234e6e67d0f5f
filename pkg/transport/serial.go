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

// Package transport opens the diagnostic port of a device.
package transport

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"

	"jinr.ru/greenlab/go-diag/pkg/log"
)

const (
	DefaultBaudRate = 115200
	// ReadTimeout lets readers notice cancellation on a silent port
	ReadTimeout = 500 * time.Millisecond
)

// Port is a Diag serial port.
type Port struct {
	serial.Port
	Name string
}

var _ io.ReadWriteCloser = (*Port)(nil)

func newMode(baud int) *serial.Mode {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	return &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// OpenSerial opens name at baud bits per second, 8N1.
func OpenSerial(name string, baud int) (*Port, error) {
	mode := newMode(baud)
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	if err := port.SetReadTimeout(ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", name, err)
	}
	log.Info("Opened diag port %s at %d baud", name, mode.BaudRate)
	return &Port{Port: port, Name: name}, nil
}

// ListPorts returns the serial ports present on the host.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}
