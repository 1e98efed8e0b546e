package log

import (
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"khetao.com/clikit/colors"
)

// Category selects the color and prefix of a console line.
type Category string

const (
	CategoryLog     Category = "log"
	CategoryWarn    Category = "warn"
	CategoryError   Category = "error"
	CategoryDebug   Category = "debug"
	CategorySuccess Category = "success"
)

const categoryKey = "category"

var categoryColors = map[Category]string{
	CategoryLog:     "",
	CategoryWarn:    "yellow",
	CategoryError:   "red",
	CategoryDebug:   "cyan",
	CategorySuccess: "green",
}

var bufferPool = buffer.NewPool()

// consoleEncoder writes one colored line per entry: the message, prefixed
// with the upper-cased category and a tab-bar separator for every category
// but log. Fields other than the category are dropped.
type consoleEncoder struct {
	zapcore.Encoder
}

func newConsoleEncoder() zapcore.Encoder {
	return &consoleEncoder{Encoder: zapcore.NewJSONEncoder(defaultEncoderConfig)}
}

func (c *consoleEncoder) Clone() zapcore.Encoder {
	return &consoleEncoder{Encoder: c.Encoder.Clone()}
}

func (c *consoleEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	category := categoryOf(ent.Level, fields)

	line := ent.Message
	if category != CategoryLog {
		line = strings.ToUpper(string(category)) + "\t| " + line
	}

	buf := bufferPool.Get()
	buf.AppendString(colors.Colorize(line, categoryColors[category]))
	if ent.Stack != "" {
		buf.AppendByte('\n')
		buf.AppendString(ent.Stack)
	}
	buf.AppendString(zapcore.DefaultLineEnding)
	return buf, nil
}

func categoryOf(level zapcore.Level, fields []zapcore.Field) Category {
	for _, f := range fields {
		if f.Key == categoryKey && f.Type == zapcore.StringType {
			return Category(f.String)
		}
	}
	switch {
	case level <= zapcore.DebugLevel:
		return CategoryDebug
	case level == zapcore.InfoLevel:
		return CategoryLog
	case level == zapcore.WarnLevel:
		return CategoryWarn
	default:
		return CategoryError
	}
}
