package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the JSON logger shared by every layer. Unknown levels fall back to info.
func New(level string) *logrus.Logger {
	return NewWithOutput(level, os.Stdout)
}

func NewWithOutput(level string, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}
