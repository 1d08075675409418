package clog

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/apex/log"
)

var levelToStrings = [...]string{
	log.DebugLevel: "DEBUG",
	log.InfoLevel:  "INFO",
	log.WarnLevel:  "WARN",
	log.ErrorLevel: "ERROR",
	log.FatalLevel: "FATAL",
}

// Handler writes single-line entries with sorted fields. Safe for concurrent
// use by multiple loggers sharing a writer.
type Handler struct {
	mu     sync.Mutex
	writer io.Writer
}

func NewHandler(w io.Writer) *Handler {
	return &Handler{writer: w}
}

type field struct {
	name  string
	value interface{}
}

func (h *Handler) HandleLog(e *log.Entry) error {
	fields := make([]field, 0, len(e.Fields))
	for k, v := range e.Fields {
		fields = append(fields, field{k, v})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].name < fields[j].name })

	var b bytes.Buffer
	fmt.Fprintf(&b, "%s %s %s", time.Now().Format("2006-01-02 15:04:05"), levelToStrings[e.Level], e.Message)
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.name, f.value)
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(b.Bytes())
	return err
}
