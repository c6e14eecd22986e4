package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type logConfig struct {
	level  string
	format string
	// file rotates the logs instead of writing them to stderr
	file string
}

func (c logConfig) output() io.Writer {
	if c.file == "" {
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename:   c.file,
		MaxSize:    100, // MB
		MaxBackups: 3,
		MaxAge:     14,
		Compress:   true,
	}
}

func setupLogging(l *log.Logger, c logConfig) error {
	level, err := log.ParseLevel(c.level)
	if err != nil {
		return errors.Wrapf(err, "log level")
	}
	l.SetLevel(level)

	switch c.format {
	case "json":
		l.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return errors.Errorf("unknown log format '%s'", c.format)
	}

	l.SetOutput(c.output())
	return nil
}
