package main

import (
	stdlog "log"
)

type logger int

var log logger

func (l *logger) print(color string, level string, format string, value ...any) {
	stdlog.Printf("[0;"+color+"m["+level+"][0;39m "+format, value...)
}

func (l *logger) Info(format string, value ...any) {
	l.print("32", "INFO", format, value...)
}

func (l *logger) Warn(format string, value ...any) {
	l.print("33", "WARN", format, value...)
}

func (l *logger) Err(format string, value ...any) {
	l.print("31", "ERROR", format, value...)
}

func (l *logger) Fatal(format string, value ...any) {
	stdlog.Fatalf("[0;31m[FATAL][0;39m "+format, value...)
}
