package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer builds a handler stack with no database or model client.
// Only requests that fail before touching dependencies may be exercised.
func testServer() http.Handler {
	s := newServer(nil, nil)
	return s.routes()
}

func doRequest(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	testServer().ServeHTTP(rec, req)
	return rec
}

func TestInvalidUUIDPathsReturn400(t *testing.T) {
	paths := []struct {
		method string
		path   string
	}{
		{"GET", "/postings/not-a-uuid"},
		{"DELETE", "/postings/not-a-uuid"},
		{"GET", "/postings/not-a-uuid/roles"},
		{"GET", "/postings/not-a-uuid/plan-config"},
		{"GET", "/postings/not-a-uuid/role-plans"},
		{"POST", "/postings/not-a-uuid/generate"},
		{"GET", "/postings/not-a-uuid/questions"},
		{"GET", "/postings/not-a-uuid/generation-records"},
		{"DELETE", "/roles/not-a-uuid"},
		{"GET", "/roles/not-a-uuid/question-configs"},
		{"DELETE", "/question-configs/not-a-uuid"},
		{"DELETE", "/categories/not-a-uuid"},
	}

	for _, tt := range paths {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := doRequest(t, tt.method, tt.path, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "UUID")
		})
	}
}

func TestCreatePostingRejectsInvalidBody(t *testing.T) {
	rec := doRequest(t, "POST", "/postings", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request body")
}

func TestCreatePostingRejectsMissingTitle(t *testing.T) {
	rec := doRequest(t, "POST", "/postings", `{"general_requirements":"Go"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Title")
}

func TestCreateRoleRejectsBadMultiplier(t *testing.T) {
	body := `{"name":"Backend Engineer","multiplier":0,"position_count":1}`
	rec := doRequest(t, "POST", "/postings/0b56a2cf-3d4f-4f3a-9a85-1a1c6f0b2a11/roles", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Multiplier")
}

func TestCreateRoleRejectsZeroPositions(t *testing.T) {
	body := `{"name":"Backend Engineer","multiplier":3.0,"position_count":0}`
	rec := doRequest(t, "POST", "/postings/0b56a2cf-3d4f-4f3a-9a85-1a1c6f0b2a11/roles", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "PositionCount")
}

func TestReplacePlanConfigRejectsEmptyWeights(t *testing.T) {
	body := `{"candidate_multiplier":10,"questions_per_candidate":5,"category_weights":{}}`
	rec := doRequest(t, "PUT", "/postings/0b56a2cf-3d4f-4f3a-9a85-1a1c6f0b2a11/plan-config", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanConfigAcceptsZeroCandidateMultiplier(t *testing.T) {
	// Zero candidates per position is a valid config that plans no interviews.
	v := validator.New()

	req := PlanConfigRequest{
		QuestionsPerCandidate: 5,
		CategoryWeights:       map[string]int{"theoretical_knowledge": 1},
	}
	assert.NoError(t, v.Struct(req))

	req.CandidateMultiplier = -1
	assert.Error(t, v.Struct(req))
}

func TestReplacePlanConfigRejectsNegativeWeight(t *testing.T) {
	body := `{"candidate_multiplier":10,"questions_per_candidate":5,"category_weights":{"theoretical_knowledge":-1}}`
	rec := doRequest(t, "PUT", "/postings/0b56a2cf-3d4f-4f3a-9a85-1a1c6f0b2a11/plan-config", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "non-negative")
}

func TestUpsertOverrideRejectsMissingCategory(t *testing.T) {
	body := `{"question_count":5}`
	rec := doRequest(t, "PUT", "/roles/0b56a2cf-3d4f-4f3a-9a85-1a1c6f0b2a11/question-config", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "CategoryCode")
}

func TestBulkOverrideRejectsNonUUIDRoleID(t *testing.T) {
	body := `{"role_id":"nope","overrides":[{"category_code":"theoretical_knowledge","question_count":3}]}`
	rec := doRequest(t, "POST", "/postings/0b56a2cf-3d4f-4f3a-9a85-1a1c6f0b2a11/question-configs", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModelStatusWithoutClient(t *testing.T) {
	rec := doRequest(t, "GET", "/model/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reachable":false`)
}
