package wire

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResponsePayload(t *testing.T) {
	t.Parallel()

	resp, err := DecodeResponse([]byte(`{"message_id":"m1","payload":{"text":"hello"}}`))
	require.NoError(t, err)
	require.Nil(t, resp.Error)
	assert.Equal(t, "hello", resp.Payload["text"])
}

func TestDecodeResponseError(t *testing.T) {
	t.Parallel()

	resp, err := DecodeResponse([]byte(`{"error":{"code":"invalid_request","message":"boom"}}`))
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidRequest, resp.Error.Code)
	assert.Equal(t, "invalid_request: boom", resp.Error.Error())
}

func TestDecodeResponseErrorWinsOverPayload(t *testing.T) {
	t.Parallel()

	body := `{"payload":{"text":"looks fine"},"error":{"code":"internal","message":"it was not"}}`
	resp, err := DecodeResponse([]byte(body))
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	assert.Nil(t, resp.Payload, "payload must be discarded when an error marker is present")
}

func TestDecodeResponseNeitherVariant(t *testing.T) {
	t.Parallel()

	_, err := DecodeResponse([]byte(`{"message_id":"m1"}`))
	require.Error(t, err)

	_, err = DecodeResponse([]byte(`not json`))
	require.Error(t, err)
}

func TestDecodeRequest(t *testing.T) {
	t.Parallel()

	req, err := DecodeRequest([]byte(`{"message_id":"m1","capability":"run","payload":{"text":"x"}}`))
	require.NoError(t, err)
	assert.Equal(t, "run", req.Capability)

	_, err = DecodeRequest([]byte(`{"payload":{}}`))
	require.Error(t, err)
}

func TestNewRequestAssignsMessageID(t *testing.T) {
	t.Parallel()

	req := NewRequest("run", map[string]any{"text": "x"})
	_, err := uuid.Parse(req.MessageID)
	require.NoError(t, err)
}

func TestStringHelpers(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"text":  "hello",
		"count": float64(3),
		"risks": []any{"a", "b"},
		"meta":  map[string]any{"source": "x"},
	}

	s, err := String(payload, "text")
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	_, err = String(payload, "absent")
	assert.ErrorIs(t, err, ErrMissingKey)

	_, err = String(payload, "count")
	assert.ErrorIs(t, err, ErrWrongType)

	assert.Equal(t, "hello", OptionalString(payload, "text", "def"))
	assert.Equal(t, "def", OptionalString(payload, "absent", "def"))

	list, err := StringList(payload, "risks")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, list)

	_, err = StringList(payload, "text")
	assert.ErrorIs(t, err, ErrWrongType)

	_, err = StringList(payload, "absent")
	assert.ErrorIs(t, err, ErrMissingKey)

	m, err := Map(payload, "meta")
	require.NoError(t, err)
	assert.Equal(t, "x", m["source"])

	_, err = Map(payload, "text")
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestStringListMixedElements(t *testing.T) {
	t.Parallel()

	_, err := StringList(map[string]any{"risks": []any{"ok", 7}}, "risks")
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestResponseRoundTrip(t *testing.T) {
	t.Parallel()

	orig := OK("m2", map[string]any{"text": "t"})
	data, err := json.Marshal(orig)
	require.NoError(t, err)

	back, err := DecodeResponse(data)
	require.NoError(t, err)
	assert.Equal(t, orig.Payload, back.Payload)

	failData, err := json.Marshal(Fail("m3", CodeToolUnavailable, "no ocr", nil))
	require.NoError(t, err)
	failBack, err := DecodeResponse(failData)
	require.NoError(t, err)
	require.NotNil(t, failBack.Error)
	assert.Equal(t, CodeToolUnavailable, failBack.Error.Code)
}
