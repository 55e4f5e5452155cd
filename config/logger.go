package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"stylebridge/misc"
)

type LoggerConfig struct {
	Level       string `yaml:"level" validate:"required,oneof=none debug normal"`
	Destination string `yaml:"destination,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	Mode        string `yaml:"mode,omitempty" validate:"omitempty,oneof=append overwrite"`
}

type LoggingConfig struct {
	FileLogger    LoggerConfig `yaml:"file"`
	ConsoleLogger LoggerConfig `yaml:"console"`
}

// minLevel maps configured level name to the lowest enabled level, false
// means logging is off.
func minLevel(name string) (zapcore.Level, bool) {
	switch name {
	case "debug":
		return zapcore.DebugLevel, true
	case "normal":
		return zapcore.InfoLevel, true
	}
	return zapcore.InvalidLevel, false
}

func consoleEncoderConfig(stream *os.File) zapcore.EncoderConfig {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if EnableColorOutput(stream) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return ec
}

// consoleCore splits console output: errors go to stderr, everything else
// enabled goes to stdout.
func (conf *LoggingConfig) consoleCore() zapcore.Core {
	lvl, ok := minLevel(conf.ConsoleLogger.Level)
	if !ok {
		return zapcore.NewNopCore()
	}
	low := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig(os.Stdout)), zapcore.Lock(os.Stdout),
		zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return lvl <= l && l < zapcore.ErrorLevel
		}))
	high := zapcore.NewCore(newEncoder(consoleEncoderConfig(os.Stderr)), zapcore.Lock(os.Stderr),
		zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= zapcore.ErrorLevel
		}))
	return zapcore.NewTee(high, low)
}

func openLog(fname, mode string) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if mode == "append" {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	return os.OpenFile(fname, flags, 0644)
}

// Prepare returns configured program logger. When debug report is requested
// file log is always on at debug level and becomes part of the report.
func (conf *LoggingConfig) Prepare(rpt *Report) (*zap.Logger, error) {
	level, mode := conf.FileLogger.Level, conf.FileLogger.Mode
	if rpt != nil {
		level, mode = "debug", "overwrite"
	}

	fileCore := zapcore.NewNopCore()
	var redirected string
	if lvl, ok := minLevel(level); ok {
		capturePanics(filepath.Dir(conf.FileLogger.Destination), mode, rpt)

		f, err := openLog(conf.FileLogger.Destination, mode)
		if err != nil {
			if f, err = os.CreateTemp("", misc.GetAppName()+".*.log"); err != nil {
				return nil, fmt.Errorf("unable to access file log destination (%s): %w", conf.FileLogger.Destination, err)
			}
			redirected = f.Name()
		}
		rpt.Store("final.log", f.Name())
		fileCore = zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.Lock(f), zap.NewAtomicLevelAt(lvl))
	}

	log := zap.New(zapcore.NewTee(conf.consoleCore(), fileCore), zap.AddCaller())
	if len(redirected) != 0 {
		log.Warn("Log file was redirected to new location", zap.String("location", redirected))
	}
	return log.Named(misc.GetAppName()), nil
}

// capturePanics sends runtime crash output next to the log file when
// possible, temporary directory otherwise.
func capturePanics(dir, mode string, rpt *Report) {
	ef, err := openLog(filepath.Join(dir, misc.GetAppName()+"-panic.log"), mode)
	if err != nil {
		if ef, err = os.CreateTemp("", misc.GetAppName()+"-panic.*.log"); err != nil {
			return
		}
	}
	defer ef.Close()
	if err := debug.SetCrashOutput(ef, debug.CrashOptions{}); err == nil {
		rpt.Store("panic.log", ef.Name())
	}
}

// consoleEnc prints errors to console without verbose details.
type consoleEnc struct {
	zapcore.Encoder
}

func newEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return consoleEnc{zapcore.NewConsoleEncoder(cfg)}
}

func (c consoleEnc) Clone() zapcore.Encoder {
	return consoleEnc{c.Encoder.Clone()}
}

func (c consoleEnc) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	out := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			if e, ok := f.Interface.(error); ok {
				f.Interface = errors.New(e.Error())
			}
		}
		out = append(out, f)
	}
	return c.Encoder.EncodeEntry(ent, out)
}
