package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recMonitor struct {
	errs    []error
	tags    []map[string]string
	flushes int
}

func (r *recMonitor) CaptureException(err error, tags map[string]string) {
	r.errs = append(r.errs, err)
	r.tags = append(r.tags, tags)
}
func (r *recMonitor) Recover()            {}
func (r *recMonitor) Flush(time.Duration) { r.flushes++ }

func TestCaptureException(t *testing.T) {
	rec := &recMonitor{}
	Init(rec)
	defer Init(nil)

	CaptureException(nil, nil)
	CaptureException(errors.New("fit failed"), map[string]string{"task_id": "t-v1"})
	assert.Len(t, rec.errs, 1)
	assert.Equal(t, "t-v1", rec.tags[0]["task_id"])
}

func TestRecoverReportsAndRepanics(t *testing.T) {
	rec := &recMonitor{}
	Init(rec)
	defer Init(nil)

	assert.PanicsWithValue(t, "boom", func() {
		defer Recover()
		panic("boom")
	})
	assert.Len(t, rec.errs, 1)
	assert.Equal(t, "panic: boom", rec.errs[0].Error())
	assert.Equal(t, 1, rec.flushes)
}
