package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/ragso/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandler_Output(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf, WithTextHandlerRenderer(func(s string) (string, error) {
		return "Rendered: " + s, nil
	}))

	err := handler.Output(context.Background(), []domain.Turn{
		{Role: domain.RoleAssistant, Payload: domain.TextPayload("Hello World")},
	})
	require.NoError(t, err)
	assert.Contains(t, outBuf.String(), "Rendered: Hello World")
}

func TestTextHandler_Input(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("  my user input\x07 \nsecond"), outBuf)

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "my user input", val)
	assert.Equal(t, "> ", outBuf.String())

	val, err = handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", val)

	_, err = handler.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestTextHandler_InputRetriesOnOversizedLine(t *testing.T) {
	t.Setenv(EnvMaxUtteranceLength, "4")
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("too long\nok\n"), outBuf)

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Contains(t, outBuf.String(), "Please try again")
}
