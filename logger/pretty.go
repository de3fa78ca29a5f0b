package logger

import (
	"bytes"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"github.com/rise-and-shine/datamask/value"
)

type palette struct {
	level *color.Color
	key   *color.Color
	val   *color.Color
}

//nolint:gochecknoglobals // palette is a static lookup shared across encoder instances.
var (
	timeColor = color.New(color.Faint)

	plainPalette = palette{
		level: color.New(color.FgGreen, color.Bold),
		key:   color.New(color.FgCyan),
		val:   color.New(color.FgWhite),
	}
	debugPalette = palette{
		level: color.New(color.FgBlue, color.Bold),
		key:   color.New(color.FgCyan),
		val:   color.New(color.FgWhite),
	}
	warnPalette = palette{
		level: color.New(color.FgYellow, color.Bold),
		key:   color.New(color.FgYellow),
		val:   color.New(color.FgHiYellow),
	}
	errorPalette = palette{
		level: color.New(color.FgRed, color.Bold),
		key:   color.New(color.FgRed),
		val:   color.New(color.FgHiRed),
	}
	fatalPalette = palette{
		level: color.New(color.FgMagenta, color.Bold),
		key:   color.New(color.FgRed),
		val:   color.New(color.FgHiRed),
	}
)

func paletteFor(level zapcore.Level) palette {
	switch level {
	case zapcore.DebugLevel:
		return debugPalette
	case zapcore.WarnLevel:
		return warnPalette
	case zapcore.ErrorLevel:
		return errorPalette
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return fatalPalette
	case zapcore.InfoLevel, zapcore.InvalidLevel:
		return plainPalette
	default:
		return plainPalette
	}
}

// prettyEncoder wraps zap's JSON encoder to produce colorized, indented output suited for terminals.
type prettyEncoder struct {
	zapcore.Encoder
}

// Clone ensures derived loggers keep the pretty encoder wrapper.
func (e *prettyEncoder) Clone() zapcore.Encoder {
	return &prettyEncoder{Encoder: e.Encoder.Clone()}
}

// newPrettyLogger creates a pretty logger without caller tracking.
func newPrettyLogger(cfg *zap.Config, out zapcore.WriteSyncer) *zap.Logger {
	enc := &prettyEncoder{Encoder: zapcore.NewJSONEncoder(cfg.EncoderConfig)}
	core := zapcore.NewCore(enc, out, cfg.Level)
	return zap.New(core, zap.ErrorOutput(zapcore.AddSync(os.Stderr)))
}

// EncodeEntry renders a header line followed by the entry fields as indented JSON.
// Entries that cannot be decoded are written as the raw JSON line.
func (e *prettyEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf, err := e.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}

	raw := append([]byte(nil), bytes.TrimSpace(buf.Bytes())...)
	buf.Reset()

	decoded, err := value.DecodeJSON(raw)
	payload, ok := decoded.(*orderedmap.OrderedMap[string, any])
	if err != nil || !ok {
		buf.AppendString(string(raw))
		buf.AppendByte('\n')
		return buf, nil
	}

	colors := paletteFor(entry.Level)
	buf.AppendString(header(entry, colors))

	meta := filterReserved(payload)
	if meta.Len() == 0 {
		return buf, nil
	}

	pretty, err := value.MarshalJSONIndent(meta, "", "  ")
	if err != nil {
		return nil, err
	}
	for _, line := range bytes.Split(pretty, []byte("\n")) {
		if styled := styleMetaLine(line, colors); styled != "" {
			buf.AppendString(styled)
			buf.AppendByte('\n')
		}
	}

	return buf, nil
}

func header(entry zapcore.Entry, colors palette) string {
	timestamp := entry.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	var b strings.Builder
	b.WriteString(timeColor.Sprint("[" + timestamp.Format(time.DateTime) + "]"))
	b.WriteByte(' ')
	b.WriteString(colors.level.Sprint(entry.Level.CapitalString()))
	if entry.LoggerName != "" {
		b.WriteString(" " + timeColor.Sprint(entry.LoggerName+":"))
	}
	if entry.Message != "" {
		b.WriteByte(' ')
		b.WriteString(entry.Message)
	}
	b.WriteByte('\n')
	return b.String()
}

// filterReserved drops the keys already shown in the header.
func filterReserved(payload *orderedmap.OrderedMap[string, any]) *orderedmap.OrderedMap[string, any] {
	meta := orderedmap.New[string, any]()
	for pair := payload.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Key {
		case timeKey, levelKey, messageKey, nameKey:
			continue
		default:
			meta.Set(pair.Key, pair.Value)
		}
	}
	return meta
}

func styleMetaLine(line []byte, colors palette) string {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return ""
	}

	indent := string(line[:len(line)-len(bytes.TrimLeft(line, " "))])
	colonIdx := bytes.Index(trimmed, []byte(`": `))
	if trimmed[0] != '"' || colonIdx == -1 {
		return indent + colors.val.Sprint(string(trimmed))
	}

	key := string(trimmed[:colonIdx+1])
	rest := string(trimmed[colonIdx+2:])
	return indent + colors.key.Sprint(key) + ":" + colors.val.Sprint(rest)
}
