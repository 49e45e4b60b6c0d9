package ai

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestErrorFormatting(t *testing.T) {
	withStatus := &RequestError{StatusCode: 503, Err: errors.New("overloaded")}
	assert.Equal(t, "generation request failed with status 503: overloaded", withStatus.Error())

	noStatus := &RequestError{Err: errors.New("connection refused")}
	assert.Equal(t, "generation request failed: connection refused", noStatus.Error())
}

func TestRequestErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := error(&RequestError{StatusCode: 500, Err: inner})

	assert.ErrorIs(t, err, inner)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 500, reqErr.StatusCode)
}

func TestDefaultModel(t *testing.T) {
	t.Setenv("FOCUSDAY_MODEL", "")
	assert.Equal(t, ModelSonnet, DefaultModel())

	t.Setenv("FOCUSDAY_MODEL", ModelHaiku)
	assert.Equal(t, ModelHaiku, DefaultModel())
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	client, err := NewClient(&Config{})
	assert.Nil(t, client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient(&Config{APIKey: "test-key"})
	require.NoError(t, err)

	assert.Equal(t, ModelSonnet, client.model)
	assert.Equal(t, int64(4096), client.maxTokens)
	assert.Equal(t, 60*time.Second, client.timeout)
	assert.NotNil(t, client.sem)
	assert.NotNil(t, client.limiter)
}

func TestNewClientOverrides(t *testing.T) {
	client, err := NewClient(&Config{
		APIKey:             "test-key",
		Model:              ModelHaiku,
		MaxTokens:          1024,
		Timeout:            5 * time.Second,
		MaxConcurrentCalls: -1,
		RequestsPerMinute:  -1,
	})
	require.NoError(t, err)

	assert.Equal(t, ModelHaiku, client.model)
	assert.Equal(t, int64(1024), client.maxTokens)
	assert.Equal(t, 5*time.Second, client.timeout)
	assert.Nil(t, client.sem)
	assert.Nil(t, client.limiter)
}
