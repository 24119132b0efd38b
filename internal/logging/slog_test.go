package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrWithNilError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("operation completed", Err(nil))
	assert.NotContains(t, buf.String(), "error=")
}

func TestErrWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Error("operation failed", Err(errors.New("boom")))
	assert.Contains(t, buf.String(), "error=boom")
}

func TestAttributeConstructors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("call",
		Operation("list_events"),
		Platform("meetup"),
		Tool("meetup_search_events"),
		Status(StatusSuccess),
	)

	out := buf.String()
	assert.Contains(t, out, "operation=list_events")
	assert.Contains(t, out, "platform=meetup")
	assert.Contains(t, out, "tool=meetup_search_events")
	assert.Contains(t, out, "status=success")
}

func TestSanitizeToken(t *testing.T) {
	assert.Equal(t, "<empty>", SanitizeToken(""))
	assert.Equal(t, "[token:6 chars]", SanitizeToken("secret"))
	assert.NotContains(t, SanitizeToken("super-secret-token"), "super")
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	WithTool(WithPlatform(logger, "luma"), "luma_list_events").Info("hi")
	out := buf.String()
	assert.Contains(t, out, "platform=luma")
	assert.Contains(t, out, "tool=luma_list_events")
}
