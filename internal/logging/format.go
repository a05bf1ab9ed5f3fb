package logging

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/seaflow/cruiseprep/internal/term"
)

const timestampFormat = "2006-01-02 15:04:05"

// lineFormatter renders "2006-01-02 15:04:05 [LEVEL] message key=value".
// Color codes are read from package term at format time.
type lineFormatter struct {
	color bool
}

func (f *lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	label, color := levelLabel(e)

	var b bytes.Buffer
	b.WriteString(e.Time.Format(timestampFormat))
	b.WriteByte(' ')
	if f.color && color != "" {
		b.WriteString(color + "[" + label + "]" + term.NC)
	} else {
		b.WriteString("[" + label + "]")
	}
	if e.Message != "" {
		b.WriteByte(' ')
		b.WriteString(e.Message)
	}

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		if k == statusKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

// levelLabel maps a logrus entry to the label and color shown in brackets.
func levelLabel(e *logrus.Entry) (string, string) {
	if e.Level == logrus.InfoLevel && e.Data[statusKey] == "success" {
		return "SUCCESS", term.Green
	}
	switch e.Level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return "ERROR", term.Red
	case logrus.WarnLevel:
		return "WARN", term.Yellow
	case logrus.DebugLevel, logrus.TraceLevel:
		return "DEBUG", term.Cyan
	default:
		return "INFO", term.Blue
	}
}
