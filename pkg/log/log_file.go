package log

/**
 * @file: log_file.go
 * @description: logger writer file
 */

import (
	"fmt"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultFilename = "atelier.log"

// getFileLogWriter returns the WriteSyncer for logging to a file.
func getFileLogWriter(conf *LogConfig) zapcore.WriteSyncer {
	filename := conf.Filename
	if filename == "" {
		filename = defaultFilename
	}
	lumberJackLogger := &lumberjack.Logger{
		Filename:   fmt.Sprintf("%s/%s", conf.Path, filename),
		MaxSize:    conf.RotateSize,
		MaxBackups: conf.RotateNum,
		MaxAge:     conf.KeepDays,
		Compress:   true,
	}
	return zapcore.AddSync(lumberJackLogger)
}
