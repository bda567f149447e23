package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DEBUG,
		"INFO":    INFO,
		"warning": WARN,
		"error":   ERROR,
		"bogus":   INFO,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, 期望 %s", in, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)
	l.SetLevel(WARN)

	l.Info("不应输出 %d", 1)
	l.Warn("应输出 %d", 2)

	out := buf.String()
	if strings.Contains(out, "不应输出") {
		t.Errorf("INFO 日志不应在 WARN 级别输出: %q", out)
	}
	if !strings.Contains(out, "应输出 2") {
		t.Errorf("WARN 日志缺失: %q", out)
	}
}

func TestSetEnabled(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)
	l.SetEnabled(false)
	l.Error("静默")
	if buf.Len() != 0 {
		t.Errorf("禁用后不应有输出: %q", buf.String())
	}
}

func TestLogEvent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)

	l.LogEvent("MTCH", true, 12.5, "3 个结果")
	l.LogEvent("CAPT", false, 1, "越界")

	out := buf.String()
	if !strings.Contains(out, "MTCH | OK") || !strings.Contains(out, "CAPT | NG") {
		t.Errorf("事件日志格式错误: %q", out)
	}
}

func TestSetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itemscope.log")
	l := NewWithWriter(nil)
	if err := l.SetFile(true, path); err != nil {
		t.Fatalf("SetFile 失败: %v", err)
	}
	l.Info("写入文件")
	if err := l.Close(); err != nil {
		t.Fatalf("Close 失败: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	if !strings.Contains(string(data), "写入文件") {
		t.Errorf("日志文件内容缺失: %q", data)
	}
}
