package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"cloud.google.com/go/logging"
	"go.uber.org/zap/zapcore"
	"google.golang.org/api/option"
	"google.golang.org/genproto/googleapis/api/monitoredres"
)

// shipper delivers log entries somewhere other than the local outputs.
type shipper interface {
	ship(ent zapcore.Entry, fields map[string]any) error
	flush() error
}

// remoteCore forwards every entry the local core accepts to a shipper.
type remoteCore struct {
	min    zapcore.Level
	fields map[string]any
	to     shipper
}

func teeRemote(local zapcore.Core, to shipper) zapcore.Core {
	return zapcore.NewTee(local, &remoteCore{min: lowestEnabled(local), to: to})
}

// lowestEnabled returns the lowest level core accepts.
func lowestEnabled(core zapcore.Core) zapcore.Level {
	for l := zapcore.DebugLevel; l < zapcore.FatalLevel; l++ {
		if core.Enabled(l) {
			return l
		}
	}
	return zapcore.FatalLevel
}

func (c *remoteCore) Enabled(l zapcore.Level) bool {
	return l >= c.min
}

func (c *remoteCore) With(fields []zapcore.Field) zapcore.Core {
	return &remoteCore{min: c.min, fields: mergeFields(c.fields, fields), to: c.to}
}

func (c *remoteCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}
	return ce.AddCore(ent, c)
}

func (c *remoteCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	return c.to.ship(ent, mergeFields(c.fields, fields))
}

func (c *remoteCore) Sync() error {
	return c.to.flush()
}

// mergeFields returns a copy of base with fields added as plain values.
func mergeFields(base map[string]any, fields []zapcore.Field) map[string]any {
	enc := zapcore.NewMapObjectEncoder()
	for k, v := range base {
		enc.Fields[k] = v
	}
	for _, f := range fields {
		f.AddTo(enc)
	}
	return enc.Fields
}

var severities = map[zapcore.Level]logging.Severity{
	zapcore.DebugLevel:  logging.Debug,
	zapcore.InfoLevel:   logging.Info,
	zapcore.WarnLevel:   logging.Warning,
	zapcore.ErrorLevel:  logging.Error,
	zapcore.DPanicLevel: logging.Critical,
	zapcore.PanicLevel:  logging.Critical,
	zapcore.FatalLevel:  logging.Critical,
}

func encodeStackdriverLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(severities[l].String())
}

// stackdriverShipper writes entries to Cloud Logging. The console category
// travels as a label so success lines can be told apart from plain info.
type stackdriverShipper struct {
	client *logging.Client
	logger *logging.Logger
}

func newStackdriverShipper(project, quotaProject, logName string, mr *monitoredres.MonitoredResource) (*stackdriverShipper, error) {
	if project == "" {
		return nil, errors.New("a project must be provided for stackdriver export")
	}
	client, err := logging.NewClient(context.Background(), project, option.WithQuotaProject(quotaProject))
	if err != nil {
		return nil, err
	}
	var opts []logging.LoggerOption
	if mr != nil {
		opts = append(opts, logging.CommonResource(mr))
	}
	return &stackdriverShipper{client: client, logger: client.Logger(logName, opts...)}, nil
}

func (s *stackdriverShipper) ship(ent zapcore.Entry, fields map[string]any) error {
	severity, ok := severities[ent.Level]
	if !ok {
		severity = logging.Default
	}
	labels := map[string]string{}
	if c, ok := fields[categoryKey].(string); ok {
		labels[categoryKey] = c
		delete(fields, categoryKey)
	}
	fields["scope"] = ent.LoggerName
	fields["message"] = ent.Message
	s.logger.Log(logging.Entry{
		Timestamp: ent.Time,
		Severity:  severity,
		Labels:    labels,
		Payload:   fields,
	})
	return nil
}

func (s *stackdriverShipper) flush() error {
	if err := s.logger.Flush(); err != nil {
		return fmt.Errorf("error writing logs to Stackdriver: %v", err)
	}
	return nil
}

func (s *stackdriverShipper) close() error {
	return s.client.Close()
}

// udsShipper collects entries as JSON documents and posts them, as a JSON
// array of strings, to an HTTP server on a unix socket on every flush.
type udsShipper struct {
	client http.Client
	url    string

	mu      sync.Mutex
	pending []string
}

func newUDSShipper(socket, path string) *udsShipper {
	return &udsShipper{
		client: http.Client{
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					var d net.Dialer
					return d.DialContext(ctx, "unix", socket)
				},
			},
			Timeout: 100 * time.Millisecond,
		},
		url: "http://unix" + path,
	}
}

func (u *udsShipper) ship(ent zapcore.Entry, fields map[string]any) error {
	fields["time"] = ent.Time.UTC().Format(time.RFC3339Nano)
	fields["level"] = ent.Level.String()
	fields["msg"] = ent.Message
	if ent.LoggerName != "" {
		fields["scope"] = ent.LoggerName
	}
	doc, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode log for uds server: %v", err)
	}
	u.mu.Lock()
	u.pending = append(u.pending, string(doc))
	u.mu.Unlock()
	return nil
}

func (u *udsShipper) flush() error {
	u.mu.Lock()
	logs := u.pending
	u.pending = nil
	u.mu.Unlock()
	if len(logs) == 0 {
		return nil
	}

	body, err := json.Marshal(logs)
	if err != nil {
		return fmt.Errorf("failed to encode uds logs: %v", err)
	}
	resp, err := u.client.Post(u.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to send logs to uds server %v: %v", u.url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("uds server %v returned %v", u.url, resp.Status)
	}
	return nil
}
