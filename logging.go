package bfcc

import "github.com/sirupsen/logrus"

// log is the package-level logger, grounded in weiyilai-calico's BPF
// assembler (felix/bpf/asm/asm.go), which logs per-instruction detail via
// log.Debugf and surfaces hard failures via log.WithError(err).Error(...).
// In this package only the partial evaluator logs through it, at debug
// level, when it aborts or widens a loop.
var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger overrides the package logger, e.g. so the CLI can raise the
// level with -debug or redirect output in tests.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	log = l
}
