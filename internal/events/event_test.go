package events

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trl/internal/domain"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Type
		wantErr string
	}{
		{name: "start suite", input: `{"event":"start_suite","name":"top","attrs":{"id":"s1"}}`, want: StartSuite},
		{name: "close needs no name", input: `{"event":"close"}`, want: Close},
		{name: "missing name", input: `{"event":"start_test","attrs":{}}`, wantErr: "without a name"},
		{name: "missing type", input: `{"name":"x"}`, wantErr: "missing event type"},
		{name: "unknown type", input: `{"event":"log_message","name":"x"}`, wantErr: "unknown event type"},
		{name: "not json", input: `start_suite top`, wantErr: "decode event"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Decode([]byte(tt.input))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Type)
		})
	}
}

func TestParseLine(t *testing.T) {
	_, ok, err := ParseLine("==============================\n")
	assert.False(t, ok)
	assert.NoError(t, err)

	e, ok, err := ParseLine(`##trl {"event":"end_test","name":"A","attrs":{"status":"FAIL","message":"boom","elapsedtime":1200}}` + "\r\n")
	require.True(t, ok)
	require.NoError(t, err)
	attrs, err := e.TestEndAttrs()
	require.NoError(t, err)
	assert.Equal(t, domain.TestEndAttrs{Status: "FAIL", Message: "boom", ElapsedTime: 1200}, attrs)

	_, ok, err = ParseLine(`##trl {"event":`)
	assert.True(t, ok)
	assert.Error(t, err)
}

func TestEvent_Line(t *testing.T) {
	e, err := New(StartSuite, "top", domain.SuiteAttrs{ID: "s1", Tests: []string{"A"}, Variables: map[string]string{"outputdir": "/tmp/out"}})
	require.NoError(t, err)

	line, err := e.Line()
	require.NoError(t, err)
	parsed, ok, err := ParseLine(line)
	require.True(t, ok)
	require.NoError(t, err)

	attrs, err := parsed.SuiteAttrs()
	require.NoError(t, err)
	assert.Equal(t, "top", parsed.Name)
	assert.Equal(t, []string{"A"}, attrs.Tests)
	assert.Equal(t, "/tmp/out", attrs.Variables["outputdir"])
}

func TestEvent_SuiteAttrsWithNonStringVariables(t *testing.T) {
	e, err := Decode([]byte(`{"event":"start_suite","name":"top","attrs":{"id":"s1","variables":{"outputdir":"/tmp/out","timeout":30,"browsers":["chrome"]}}}`))
	require.NoError(t, err)

	attrs, err := e.SuiteAttrs()
	require.NoError(t, err)
	assert.Equal(t, "s1", attrs.ID)
	assert.Equal(t, "/tmp/out", attrs.Variables["outputdir"])
	assert.Equal(t, "30", attrs.Variables["timeout"])
	assert.Equal(t, `["chrome"]`, attrs.Variables["browsers"])
}

type recordingListener struct {
	calls []string
	err   error
}

func (l *recordingListener) add(format string, args ...any) error {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
	return l.err
}

func (l *recordingListener) StartSuite(_ context.Context, name string, a domain.SuiteAttrs) error {
	return l.add("start_suite %s %s %v", name, a.ID, a.Tests)
}

func (l *recordingListener) EndSuite(_ context.Context, name string, a domain.SuiteAttrs) error {
	return l.add("end_suite %s %s", name, a.ID)
}

func (l *recordingListener) StartTest(_ context.Context, name string, a domain.TestAttrs) error {
	return l.add("start_test %s %s", name, a.ID)
}

func (l *recordingListener) EndTest(_ context.Context, name string, a domain.TestEndAttrs) error {
	return l.add("end_test %s %s %d", name, a.Status, a.ElapsedTime)
}

func (l *recordingListener) Close(context.Context) error {
	return l.add("close")
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	l := &recordingListener{}
	lines := []string{
		`{"event":"start_suite","name":"top","attrs":{"id":"s1","tests":["A"]}}`,
		`{"event":"start_test","name":"A","attrs":{"id":"s1-t1"}}`,
		`{"event":"end_test","name":"A","attrs":{"status":"PASS","elapsedtime":5}}`,
		`{"event":"end_suite","name":"top","attrs":{"id":"s1"}}`,
		`{"event":"close"}`,
	}
	for _, line := range lines {
		e, err := Decode([]byte(line))
		require.NoError(t, err)
		require.NoError(t, Dispatch(ctx, l, e))
	}
	assert.Equal(t, []string{
		"start_suite top s1 [A]",
		"start_test A s1-t1",
		"end_test A PASS 5",
		"end_suite top s1",
		"close",
	}, l.calls)
}

func TestDispatch_Errors(t *testing.T) {
	ctx := context.Background()

	l := &recordingListener{}
	err := Dispatch(ctx, l, Event{Type: EndTest, Name: "A", Attrs: []byte(`{"elapsedtime":"soon"}`)})
	assert.ErrorContains(t, err, `decode end_test attrs of "A"`)
	assert.Empty(t, l.calls)

	err = Dispatch(ctx, l, Event{Type: "log_message"})
	assert.ErrorContains(t, err, "unknown event type")

	sentinel := errors.New("listener failed")
	l = &recordingListener{err: sentinel}
	err = Dispatch(ctx, l, Event{Type: StartTest, Name: "A"})
	assert.ErrorIs(t, err, sentinel)
}
