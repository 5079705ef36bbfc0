package log

import (
	"encoding/json"
	"log"
	"time"
)

type entry struct {
	TS     string         `json:"ts"`
	Level  string         `json:"level"`
	Action string         `json:"action,omitempty"`
	Err    string         `json:"err,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

func write(level, action string, err error, fields map[string]any) {
	e := entry{TS: time.Now().UTC().Format(time.RFC3339), Level: level, Action: action, Fields: fields}
	if err != nil {
		e.Err = err.Error()
	}
	b, _ := json.Marshal(e)
	log.Println(string(b))
}

func Info(action string, fields map[string]any)  { write("info", action, nil, fields) }
func Audit(action string, fields map[string]any) { write("audit", action, nil, fields) }
func Warn(action string, err error, fields map[string]any) {
	write("warn", action, err, fields)
}
func Error(action string, err error, fields map[string]any) {
	write("error", action, err, fields)
}
