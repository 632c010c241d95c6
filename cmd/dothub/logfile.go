package main

import "gopkg.in/natefinch/lumberjack.v2"

const (
	logMaxSizeMB  = 5
	logMaxBackups = 1
)

// newLogFile returns a writer for path that rolls over once the file passes
// logMaxSizeMB, keeping a single older file next to it. The file and its
// directory are created on the first write.
func newLogFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
	}
}
