package azure

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawResponse(status int, body string) *RawResponse {
	return &RawResponse{StatusCode: status, Body: []byte(body), Header: http.Header{}}
}

func TestClassifyStatusTotal(t *testing.T) {
	// Every status in the plausible range must classify to exactly one
	// non-zero kind.
	for status := 100; status < 600; status++ {
		if status >= 200 && status <= 299 {
			continue
		}
		kind := classifyStatus(status)
		assert.NotEqual(t, KindUnknown, kind, "status %d must classify", status)
	}
}

func TestClassifyStatusMapping(t *testing.T) {
	assert.Equal(t, KindAuthorization, classifyStatus(401))
	assert.Equal(t, KindAuthorization, classifyStatus(403))
	assert.Equal(t, KindNotFound, classifyStatus(404))
	assert.Equal(t, KindConflict, classifyStatus(409))
	assert.Equal(t, KindRequest, classifyStatus(400))
	assert.Equal(t, KindRequest, classifyStatus(422))
	assert.Equal(t, KindRemoteService, classifyStatus(500))
	assert.Equal(t, KindRemoteService, classifyStatus(503))
}

func TestNormalizeSuccess(t *testing.T) {
	var pr PullRequest
	err := normalize(rawResponse(200, `{"pullRequestId": 42, "title": "Add caching"}`), &pr)
	require.NoError(t, err)
	assert.Equal(t, 42, pr.PullRequestID)
	assert.Equal(t, "Add caching", pr.Title)
}

func TestNormalizeEmptyBody(t *testing.T) {
	var pr PullRequest
	assert.NoError(t, normalize(rawResponse(200, ""), &pr))
	assert.NoError(t, normalize(rawResponse(204, ""), nil))
}

func TestNormalizeUndecodableSuccessBody(t *testing.T) {
	var pr PullRequest
	err := normalize(rawResponse(200, `<html>sign in</html>`), &pr)
	assert.Equal(t, KindDecode, KindOf(err))
}

func TestNormalizeErrorEnvelope(t *testing.T) {
	err := normalize(rawResponse(404, `{"message": "TF401180: The requested pull request was not found."}`), nil)
	require.Error(t, err)

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindNotFound, ae.Kind)
	assert.Equal(t, 404, ae.StatusCode)
	assert.Equal(t, "TF401180: The requested pull request was not found.", ae.Message)
}

func TestNormalizeNestedErrorMessage(t *testing.T) {
	err := normalize(rawResponse(400, `{"value": {"message": "nested detail"}}`), nil)
	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "nested detail", ae.Message)
}

func TestNormalizeNonJSONErrorBody(t *testing.T) {
	err := normalize(rawResponse(503, "  Service Unavailable  "), nil)
	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindRemoteService, ae.Kind)
	assert.Equal(t, "Service Unavailable", ae.Message)
}

func TestNormalizeListCountMatchesLength(t *testing.T) {
	var prs []PullRequest
	count, err := normalizeList(rawResponse(200, `{"count": 2, "value": [{"pullRequestId": 1}, {"pullRequestId": 2}]}`), &prs)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, prs, count)
}

func TestNormalizeListEmpty(t *testing.T) {
	var prs []PullRequest
	count, err := normalizeList(rawResponse(200, `{"count": 0, "value": []}`), &prs)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, prs)
}

func TestNormalizeListCountMismatch(t *testing.T) {
	var prs []PullRequest
	_, err := normalizeList(rawResponse(200, `{"count": 5, "value": [{"pullRequestId": 1}]}`), &prs)
	assert.Equal(t, KindDecode, KindOf(err))

	// A nonzero count with no payload at all is the same disagreement.
	_, err = normalizeList(rawResponse(200, `{"count": 3}`), &prs)
	assert.Equal(t, KindDecode, KindOf(err))
}

func TestNormalizeListError(t *testing.T) {
	var prs []PullRequest
	_, err := normalizeList(rawResponse(401, `{"message": "access denied"}`), &prs)
	assert.Equal(t, KindAuthorization, KindOf(err))
}
