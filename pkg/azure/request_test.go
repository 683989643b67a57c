package azure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeQuerySortsKeys(t *testing.T) {
	req := OperationRequest{Query: map[string]string{
		"zeta":  "1",
		"alpha": "2",
		"mid":   "3",
	}}
	assert.Equal(t, "alpha=2&mid=3&zeta=1", req.EncodeQuery())
}

func TestEncodeQueryDeterministic(t *testing.T) {
	req := OperationRequest{Query: map[string]string{
		"searchCriteria.status": "active",
		"$top":                  "10",
		"api-version":           "7.1",
	}}
	first := req.EncodeQuery()
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, req.EncodeQuery())
	}
}

func TestEncodeQueryEscapes(t *testing.T) {
	req := OperationRequest{Query: map[string]string{"$top": "10", "name": "a b"}}
	assert.Equal(t, "%24top=10&name=a+b", req.EncodeQuery())
}

func TestNewRequestAddsAPIVersion(t *testing.T) {
	req := newRequest("GET", "_apis/projects", nil, nil)
	assert.Equal(t, apiVersion, req.Query["api-version"])

	req = newRequest("GET", "path", map[string]string{"$top": "5"}, nil)
	assert.Equal(t, apiVersion, req.Query["api-version"])
	assert.Equal(t, "5", req.Query["$top"])
}

func TestRequestURL(t *testing.T) {
	req := newRequest("GET", "proj/_apis/git/repositories/repo/pullrequests", nil, nil)
	url := req.URL("https://dev.azure.com/org/")
	assert.Equal(t, "https://dev.azure.com/org/proj/_apis/git/repositories/repo/pullrequests?api-version=7.1", url)
}

func TestPatchDocumentRequestContentType(t *testing.T) {
	req := newPatchDocumentRequest("PATCH", "path", nil, []PatchOperation{{Op: "add", Path: "/fields/System.Title", Value: "x"}})
	assert.Equal(t, "application/json-patch+json", req.ContentType)
	assert.Equal(t, apiVersion, req.Query["api-version"])
}

func TestBuildFieldDocument(t *testing.T) {
	doc := buildFieldDocument(map[string]any{
		"System.Title":            "Fix login",
		"/fields/System.State":    "Active",
		"Microsoft.VSTS.Priority": 2,
	}, "add")

	assert.Len(t, doc, 3)
	// Names sort lexically, so the document order is stable.
	assert.Equal(t, "/fields/System.State", doc[0].Path)
	assert.Equal(t, "/fields/Microsoft.VSTS.Priority", doc[1].Path)
	assert.Equal(t, "/fields/System.Title", doc[2].Path)
	for _, op := range doc {
		assert.Equal(t, "add", op.Op)
	}
}

func TestValidateVote(t *testing.T) {
	for _, vote := range []int{-10, -5, 0, 5, 10} {
		assert.NoError(t, validateVote(vote))
	}
	for _, vote := range []int{-11, -1, 1, 3, 7, 11, 100} {
		assert.Equal(t, KindValidation, KindOf(validateVote(vote)), "vote %d must be rejected", vote)
	}
}

func TestValidateMergeStrategy(t *testing.T) {
	for _, s := range []string{"squash", "rebase", "rebaseMerge", "merge"} {
		assert.NoError(t, validateMergeStrategy(s))
	}
	for _, s := range []string{"", "Squash", "fast-forward", "octopus"} {
		assert.Equal(t, KindValidation, KindOf(validateMergeStrategy(s)))
	}
}

func TestValidateTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{StatusActive, StatusAbandoned, true},
		{StatusActive, StatusCompleted, true},
		{StatusAbandoned, StatusActive, true},
		{StatusAbandoned, StatusCompleted, false},
		{StatusCompleted, StatusActive, false},
		{StatusCompleted, StatusAbandoned, false},
		{StatusActive, StatusActive, true},
		{StatusCompleted, StatusCompleted, true},
	}
	for _, tc := range cases {
		err := validateTransition(tc.from, tc.to)
		if tc.ok {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
		} else {
			assert.Equal(t, KindValidation, KindOf(err), "%s -> %s", tc.from, tc.to)
		}
	}
}

func TestValidateStatus(t *testing.T) {
	for _, s := range []string{StatusActive, StatusAbandoned, StatusCompleted} {
		assert.NoError(t, validateStatus(s))
	}
	assert.Equal(t, KindValidation, KindOf(validateStatus("all")))
	assert.Equal(t, KindValidation, KindOf(validateStatus("open")))
}

func TestVoteDescription(t *testing.T) {
	assert.Equal(t, "approved", VoteDescription(10))
	assert.Equal(t, "rejected", VoteDescription(-10))
	assert.Equal(t, "voted on", VoteDescription(42))
}
