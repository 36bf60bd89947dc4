package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// UnmarshalJSON accepts _id and nim as either strings or numbers.
func (s *Student) UnmarshalJSON(data []byte) error {
	type plain Student
	var w struct {
		plain
		ID     json.RawMessage `json:"_id"`
		Number json.RawMessage `json:"nim"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Student(w.plain)
	s.ID = looseString(w.ID)
	s.Number = looseString(w.Number)
	return nil
}

// UnmarshalJSON accepts uploadedAt as an RFC 3339 string or as epoch
// milliseconds. Any other value leaves UploadedAt zero.
func (s *Submission) UnmarshalJSON(data []byte) error {
	type plain Submission
	var w struct {
		plain
		ID         json.RawMessage `json:"_id"`
		StudentID  json.RawMessage `json:"studentId"`
		UploadedAt json.RawMessage `json:"uploadedAt"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Submission(w.plain)
	s.ID = looseString(w.ID)
	s.StudentID = looseString(w.StudentID)
	s.UploadedAt = looseTime(w.UploadedAt)
	return nil
}

func looseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func looseTime(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return time.Time{}
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if t, err := time.Parse(time.RFC3339Nano, str); err == nil {
			return t
		}
		if ms, err := strconv.ParseInt(str, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC()
		}
		return time.Time{}
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return time.Time{}
	}
	if ms, err := n.Int64(); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	if f, err := n.Float64(); err == nil {
		return time.UnixMilli(int64(f)).UTC()
	}
	return time.Time{}
}
