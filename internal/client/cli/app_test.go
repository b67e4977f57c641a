package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/pageprops/internal/client/client"
	"github.com/dmitrijs2005/pageprops/internal/codec"
	"github.com/dmitrijs2005/pageprops/internal/logging"
)

func TestNewApp_Defaults(t *testing.T) {
	app := NewApp(newTestService(t, &fakeClient{}), logging.Discard(), Options{})

	assert.Equal(t, codec.StringLiteral, app.mode)
	assert.Equal(t, 3*time.Second, app.checkInterval)
	assert.Equal(t, os.Stdout, app.out)
	assert.Equal(t, StatusUnknown, app.getStatus())
}

func TestNewApp_InteractiveOnTerminal(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })
	isTerminal = func(int) bool { return true }

	app := NewApp(newTestService(t, &fakeClient{}), logging.Discard(), Options{In: os.Stdin})
	assert.True(t, app.interactive)

	app = NewApp(newTestService(t, &fakeClient{}), logging.Discard(), Options{In: strings.NewReader("")})
	assert.False(t, app.interactive)
}

func TestSetStatus_ChangesAndLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New("info", "text", &buf)
	require.NoError(t, err)

	app := NewApp(newTestService(t, &fakeClient{}), log, Options{In: strings.NewReader("")})
	ctx := context.Background()

	app.setStatus(ctx, StatusOnline)
	app.setStatus(ctx, StatusOnline)
	assert.Equal(t, StatusOnline, app.getStatus())
	assert.Equal(t, 1, strings.Count(buf.String(), "connectivity changed"))

	app.setStatus(ctx, StatusOffline)
	assert.Equal(t, StatusOffline, app.getStatus())
	assert.Equal(t, 2, strings.Count(buf.String(), "connectivity changed"))
	assert.Contains(t, buf.String(), "status=offline")
}

func TestStartOnlineStatusWatcher(t *testing.T) {
	fc := &fakeClient{}
	fc.setPingErr(client.ErrUnavailable)
	app := NewApp(newTestService(t, fc), logging.Discard(), Options{In: strings.NewReader("")})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return app.getStatus() == StatusOffline }, time.Second, 5*time.Millisecond)

	fc.setPingErr(nil)
	require.Eventually(t, func() bool { return app.getStatus() == StatusOnline }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestRun(t *testing.T) {
	capturePrints(t)

	fc := &fakeClient{}
	var out bytes.Buffer
	app := NewApp(newTestService(t, fc), logging.Discard(), Options{
		In:  strings.NewReader("no Status\nsubmit\nquit\n"),
		Out: &out,
	})

	require.NoError(t, app.Run(context.Background()))

	assert.Contains(t, out.String(), "Loaded 7 editable fields of item 7")
	assert.Contains(t, out.String(), "Submitted 5 fields")
	require.Len(t, fc.ValidateCalls, 1)
	assert.True(t, fc.Closed)
}

func TestRun_LoadError(t *testing.T) {
	fc := &fakeClient{FieldsErr: errors.New("boom")}
	var out bytes.Buffer
	app := NewApp(newTestService(t, fc), logging.Discard(), Options{In: strings.NewReader("list\n"), Out: &out})

	err := app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading page")
	assert.True(t, fc.Closed)
}
