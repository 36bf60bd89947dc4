package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionUnmarshal_UploadedAt(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", `"2026-01-01T09:00:00+07:00"`, time.Date(2026, 1, 1, 2, 0, 0, 0, time.UTC)},
		{"epoch millis", `1767258000000`, time.UnixMilli(1767258000000)},
		{"epoch millis as string", `"1767258000000"`, time.UnixMilli(1767258000000)},
		{"free text", `"besok"`, time.Time{}},
		{"object", `{"$date":1}`, time.Time{}},
		{"missing", ``, time.Time{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := `{"_id":"s1","taskName":"t","link":"l"}`
			if tc.in != "" {
				body = `{"_id":"s1","taskName":"t","link":"l","uploadedAt":` + tc.in + `}`
			}
			var s Submission
			require.NoError(t, json.Unmarshal([]byte(body), &s))
			assert.Equal(t, "s1", s.ID)
			assert.True(t, tc.want.Equal(s.UploadedAt), "got %v", s.UploadedAt)
		})
	}
}

func TestStudentUnmarshal_NumericFields(t *testing.T) {
	var s Student
	require.NoError(t, json.Unmarshal([]byte(`{"_id":7,"nama":"Budi","nim":2201002,"totalTugas":3}`), &s))
	assert.Equal(t, Student{ID: "7", Name: "Budi", Number: "2201002", SubmissionCount: 3}, s)
	assert.Equal(t, "Budi (NIM 2201002)", s.Label())
}

func TestStudentMarshal_Unchanged(t *testing.T) {
	b, err := json.Marshal(Student{ID: "a1", Name: "Ani", Number: "22", SubmissionCount: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"a1","nama":"Ani","nim":"22","totalTugas":1}`, string(b))
}
