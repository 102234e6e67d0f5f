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

package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogLevel int

const (
	LogPrefix  = "go-diag"
	HelpLevels = "Must be one of: error, warning, info, debug."
)

const (
	ErrorLevel LogLevel = iota
	WarningLevel
	InfoLevel
	DebugLevel
)

var levelMapping = map[string]LogLevel{
	"error":   ErrorLevel,
	"warning": WarningLevel,
	"info":    InfoLevel,
	"debug":   DebugLevel,
}

var zapLevels = map[LogLevel]zapcore.Level{
	ErrorLevel:   zapcore.ErrorLevel,
	WarningLevel: zapcore.WarnLevel,
	InfoLevel:    zapcore.InfoLevel,
	DebugLevel:   zapcore.DebugLevel,
}

type Logger struct {
	mu    sync.Mutex
	level zap.AtomicLevel
	sugar *zap.SugaredLogger
	file  *lumberjack.Logger
}

var logger = newLogger(os.Stderr, zap.NewAtomicLevelAt(zapcore.InfoLevel))

func newLogger(out io.Writer, level zap.AtomicLevel) *Logger {
	return &Logger{
		level: level,
		sugar: newSugar(out, level),
	}
}

func newSugar(out io.Writer, level zap.AtomicLevel) *zap.SugaredLogger {
	core := zapcore.NewCore(encoder(), zapcore.AddSync(out), level)
	return zap.New(core).Named(LogPrefix).Sugar()
}

func encoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		MessageKey:    "msg",
		StacktraceKey: zapcore.OmitKey,
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   encodeLevel,
		EncodeTime:    encodeTime,
		EncodeName:    encodeName,
	})
}

func encodeLevel(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	name := level.String()
	if level == zapcore.WarnLevel {
		name = "warn"
	}
	enc.AppendString("[" + name + "]")
}

func encodeTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006/01/02 15:04:05"))
}

func encodeName(name string, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + name + "]")
}

func parseLevel(strLevel string) (LogLevel, error) {
	level, ok := levelMapping[strLevel]
	if !ok {
		return 0, errors.New("Wrong log level. " + HelpLevels)
	}
	return level, nil
}

func SetLevel(strLevel string) error {
	level, err := parseLevel(strLevel)
	if err != nil {
		return err
	}
	logger.level.SetLevel(zapLevels[level])
	return nil
}

func Init(out io.Writer, strLevel string) {
	if err := SetLevel(strLevel); err != nil {
		panic(err)
	}
	logger.mu.Lock()
	defer logger.mu.Unlock()
	logger.sugar = newSugar(out, logger.level)
}

// InitFile sends log output to a size rotated file in addition to stderr.
func InitFile(path string, strLevel string) error {
	if err := SetLevel(strLevel); err != nil {
		return err
	}
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     30,
	}
	logger.mu.Lock()
	defer logger.mu.Unlock()
	if logger.file != nil {
		logger.file.Close()
	}
	logger.file = file
	logger.sugar = newSugar(io.MultiWriter(os.Stderr, file), logger.level)
	return nil
}

// Close flushes buffered entries and closes the rotated file if any.
func Close() error {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	logger.sugar.Sync()
	if logger.file == nil {
		return nil
	}
	err := logger.file.Close()
	logger.file = nil
	return err
}

func current() *zap.SugaredLogger {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	return logger.sugar
}

func Error(format string, v ...interface{}) {
	current().Error(fmt.Sprintf(format, v...))
}

func Warning(format string, v ...interface{}) {
	current().Warn(fmt.Sprintf(format, v...))
}

func Info(format string, v ...interface{}) {
	current().Info(fmt.Sprintf(format, v...))
}

func Debug(format string, v ...interface{}) {
	current().Debug(fmt.Sprintf(format, v...))
}

type lineWriter func(format string, v ...interface{})

func (w lineWriter) Write(p []byte) (int, error) {
	w("%s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// DebugWriter returns a writer that logs every write at debug level.
func DebugWriter() io.Writer {
	return lineWriter(Debug)
}
