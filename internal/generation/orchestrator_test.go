package generation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-agent/internal/db"
	"github.com/jonathan/interview-agent/internal/llm"
)

type mockStore struct {
	posting    *db.Posting
	roles      []db.Role
	categories []db.QuestionCategory
	config     *db.GlobalPlanConfig
	overrides  map[uuid.UUID][]db.RoleQuestionConfig

	batches    [][]db.QuestionCreateInput
	records    []db.GenerationRecordInput
	persistErr error
}

func (m *mockStore) GetPosting(_ context.Context, id uuid.UUID) (*db.Posting, error) {
	if m.posting != nil && m.posting.ID == id {
		return m.posting, nil
	}
	return nil, nil
}

func (m *mockStore) ListRolesByPosting(_ context.Context, _ uuid.UUID) ([]db.Role, error) {
	return m.roles, nil
}

func (m *mockStore) ListActiveCategories(_ context.Context) ([]db.QuestionCategory, error) {
	return m.categories, nil
}

func (m *mockStore) GetOrCreatePlanConfig(_ context.Context, _ uuid.UUID) (*db.GlobalPlanConfig, error) {
	return m.config, nil
}

func (m *mockStore) ListOverridesByRole(_ context.Context, roleID uuid.UUID) ([]db.RoleQuestionConfig, error) {
	return m.overrides[roleID], nil
}

func (m *mockStore) InsertQuestionBatch(_ context.Context, inputs []db.QuestionCreateInput) error {
	if m.persistErr != nil {
		return m.persistErr
	}
	m.batches = append(m.batches, inputs)
	return nil
}

func (m *mockStore) InsertGenerationRecord(_ context.Context, input db.GenerationRecordInput) error {
	m.records = append(m.records, input)
	return nil
}

type mockClient struct {
	response string
	// failEvery fails each Nth call when > 0
	failEvery int
	pingErr   error
	calls     int
	models    []string
}

func (m *mockClient) Generate(_ context.Context, req llm.Request) (string, error) {
	m.calls++
	m.models = append(m.models, req.Model)
	if m.failEvery > 0 && m.calls%m.failEvery == 0 {
		return "", errors.New("model unavailable")
	}
	if m.response != "" {
		return m.response, nil
	}
	return fmt.Sprintf(`{"question":"Q%d","expected_answer":"A%d"}`, m.calls, m.calls), nil
}

func (m *mockClient) Ping(_ context.Context) error { return m.pingErr }

func (m *mockClient) GetModel(tier llm.ModelTier) string { return "model-" + string(tier) }

func (m *mockClient) Close() error { return nil }

func newFixture() (*mockStore, *db.Posting, db.Role) {
	postingID := uuid.New()
	posting := &db.Posting{ID: postingID, Title: "Platform Team Hiring", GeneralRequirements: "Go, PostgreSQL"}
	role := db.Role{
		ID: uuid.New(), PostingID: postingID, Name: "Backend Engineer",
		Multiplier: 3.0, PositionCount: 1,
	}
	store := &mockStore{
		posting: posting,
		roles:   []db.Role{role},
		categories: []db.QuestionCategory{
			{ID: uuid.New(), Code: "theoretical_knowledge", Name: "Theoretical Knowledge", OrderIndex: 1, Active: true},
			{ID: uuid.New(), Code: "practical_application", Name: "Practical Application", OrderIndex: 2, Active: true},
		},
		config: &db.GlobalPlanConfig{
			PostingID:             postingID,
			CandidateMultiplier:   2,
			QuestionsPerCandidate: 5,
			CategoryWeights:       map[string]int{"theoretical_knowledge": 1, "practical_application": 2},
		},
		overrides: map[uuid.UUID][]db.RoleQuestionConfig{},
	}
	return store, posting, role
}

func TestGeneratePostingHappyPath(t *testing.T) {
	store, posting, role := newFixture()
	client := &mockClient{}
	orch := New(store, client)

	report, err := orch.GeneratePosting(context.Background(), posting.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, report.Status)
	assert.True(t, report.ModelReachable)
	require.Len(t, report.Roles, 1)

	roleReport := report.Roles[0]
	assert.Equal(t, role.ID, roleReport.RoleID)
	assert.Equal(t, StatusCompleted, roleReport.Status)
	// 1 position * multiplier 2 = 2 candidates; weights 1 and 2 -> 2 + 4 slots
	assert.Equal(t, 6, roleReport.TotalSlots)
	assert.Zero(t, roleReport.FailedSlots)

	require.Len(t, store.batches, 1)
	assert.Len(t, store.batches[0], 6)
	for _, q := range store.batches[0] {
		assert.False(t, q.Degraded)
		assert.NotEmpty(t, q.QuestionText)
		assert.NotEmpty(t, q.ExpectedAnswer)
	}
	assert.Len(t, store.records, 6)
	for _, r := range store.records {
		assert.Equal(t, "success", r.Outcome)
		assert.Positive(t, r.PromptLength)
	}
}

func TestGeneratePostingDegradesFailedSlots(t *testing.T) {
	store, posting, _ := newFixture()
	client := &mockClient{failEvery: 3}
	orch := New(store, client)

	report, err := orch.GeneratePosting(context.Background(), posting.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusPartiallyCompleted, report.Status)
	roleReport := report.Roles[0]
	assert.Equal(t, StatusPartiallyCompleted, roleReport.Status)
	assert.Equal(t, 2, roleReport.FailedSlots)

	// The batch keeps its planned shape: degraded placeholders fill the gaps
	require.Len(t, store.batches, 1)
	assert.Len(t, store.batches[0], 6)
	degraded := 0
	for _, q := range store.batches[0] {
		if q.Degraded {
			degraded++
			assert.Contains(t, q.QuestionText, "generation failed")
		}
	}
	assert.Equal(t, 2, degraded)

	failures := 0
	for _, r := range store.records {
		if r.Outcome == "failure" {
			failures++
			assert.Equal(t, "model unavailable", r.ErrorText)
		}
	}
	assert.Equal(t, 2, failures)
}

func TestGeneratePostingPersistFailureFailsBatch(t *testing.T) {
	store, posting, _ := newFixture()
	store.persistErr = errors.New("connection reset")
	orch := New(store, &mockClient{})

	report, err := orch.GeneratePosting(context.Background(), posting.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, report.Status)
	assert.Equal(t, StatusFailed, report.Roles[0].Status)
	assert.Contains(t, report.Roles[0].Error, "failed to persist question batch")
	assert.Empty(t, store.batches)
}

func TestPersistFailureLeavesNoRoleVisible(t *testing.T) {
	store, posting, role := newFixture()
	second := db.Role{
		ID: uuid.New(), PostingID: posting.ID, Name: "Frontend Engineer",
		Multiplier: 2.0, PositionCount: 1,
	}
	store.roles = []db.Role{role, second}
	store.persistErr = errors.New("connection reset")
	orch := New(store, &mockClient{})

	report, err := orch.GeneratePosting(context.Background(), posting.ID)
	require.NoError(t, err)

	// One commit covers every role: a persistence failure must not leave
	// the first role's questions behind.
	assert.Empty(t, store.batches)
	assert.Equal(t, StatusFailed, report.Status)
	require.Len(t, report.Roles, 2)
	for _, r := range report.Roles {
		assert.Equal(t, StatusFailed, r.Status)
		assert.Contains(t, r.Error, "failed to persist question batch")
	}
}

func TestMultipleRolesPersistInOneBatch(t *testing.T) {
	store, posting, role := newFixture()
	second := db.Role{
		ID: uuid.New(), PostingID: posting.ID, Name: "Frontend Engineer",
		Multiplier: 2.0, PositionCount: 1,
	}
	store.roles = []db.Role{role, second}
	orch := New(store, &mockClient{})

	report, err := orch.GeneratePosting(context.Background(), posting.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, report.Status)
	// Both roles' slots (6 each) land through a single InsertQuestionBatch call.
	require.Len(t, store.batches, 1)
	assert.Len(t, store.batches[0], 12)
}

func TestRepairFallbackAuditedAsPartial(t *testing.T) {
	store, posting, _ := newFixture()
	client := &mockClient{response: "the model rambled instead of returning JSON"}
	orch := New(store, client)

	report, err := orch.GeneratePosting(context.Background(), posting.ID)
	require.NoError(t, err)

	// The questions still land (plain-text fallback), but every audit row
	// must report the partial recovery rather than a clean success.
	assert.Equal(t, StatusCompleted, report.Status)
	require.Len(t, store.records, 6)
	for _, r := range store.records {
		assert.Equal(t, "partial", r.Outcome)
		assert.Contains(t, r.ErrorText, "structured parse failed")
	}
	require.Len(t, store.batches, 1)
	for _, q := range store.batches[0] {
		assert.False(t, q.Degraded)
		assert.Equal(t, "the model rambled instead of returning JSON", q.QuestionText)
		assert.Empty(t, q.ExpectedAnswer)
	}
}

func TestScoringNotesCarriedFromResponse(t *testing.T) {
	store, posting, _ := newFixture()
	client := &mockClient{response: `{"question":"Q","expected_answer":"A","scoring_criteria":"depth of reasoning"}`}
	orch := New(store, client)

	_, err := orch.GeneratePosting(context.Background(), posting.ID)
	require.NoError(t, err)

	require.Len(t, store.batches, 1)
	for _, q := range store.batches[0] {
		assert.Equal(t, "depth of reasoning", q.ScoringNotes)
	}
}

func TestGeneratePostingUnknownPosting(t *testing.T) {
	store, _, _ := newFixture()
	orch := New(store, &mockClient{})

	_, err := orch.GeneratePosting(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPostingNotFound)
}

func TestGeneratePostingNoRoles(t *testing.T) {
	store, posting, _ := newFixture()
	store.roles = nil
	orch := New(store, &mockClient{})

	_, err := orch.GeneratePosting(context.Background(), posting.ID)
	assert.ErrorIs(t, err, ErrNoRoles)
}

func TestGeneratePostingNoCategories(t *testing.T) {
	store, posting, _ := newFixture()
	store.categories = nil
	orch := New(store, &mockClient{})

	_, err := orch.GeneratePosting(context.Background(), posting.ID)
	assert.ErrorIs(t, err, ErrNoCategories)
}

func TestOverrideWinsOverDerivedCount(t *testing.T) {
	store, posting, role := newFixture()
	store.overrides[role.ID] = []db.RoleQuestionConfig{
		{RoleID: role.ID, CategoryCode: "theoretical_knowledge", QuestionCount: 1, DifficultyLabel: "expert"},
	}
	orch := New(store, &mockClient{})

	report, err := orch.GeneratePosting(context.Background(), posting.ID)
	require.NoError(t, err)

	// Override pins theoretical_knowledge to 1; practical_application stays derived at 4
	assert.Equal(t, 5, report.Roles[0].TotalSlots)

	require.Len(t, store.batches, 1)
	labels := map[string]string{}
	for _, q := range store.batches[0] {
		labels[q.CategoryCode] = q.DifficultyLabel
	}
	assert.Equal(t, "expert", labels["theoretical_knowledge"])
	// Non-overridden categories carry the tier-derived label (3x -> hard)
	assert.Equal(t, "hard", labels["practical_application"])
}

func TestModelTierFollowsMultiplierBand(t *testing.T) {
	tests := []struct {
		multiplier float64
		wantModel  string
	}{
		{2.0, "model-lite"},
		{3.0, "model-standard"},
		{4.0, "model-advanced"},
		{5.5, "model-advanced"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.1fx", tt.multiplier), func(t *testing.T) {
			store, posting, role := newFixture()
			role.Multiplier = tt.multiplier
			store.roles = []db.Role{role}
			client := &mockClient{}
			orch := New(store, client)

			_, err := orch.GeneratePosting(context.Background(), posting.ID)
			require.NoError(t, err)
			require.NotEmpty(t, client.models)
			assert.Equal(t, tt.wantModel, client.models[0])
		})
	}
}

func TestUnreachableModelStillRuns(t *testing.T) {
	store, posting, _ := newFixture()
	client := &mockClient{pingErr: errors.New("dns failure")}
	orch := New(store, client)

	report, err := orch.GeneratePosting(context.Background(), posting.ID)
	require.NoError(t, err)

	assert.False(t, report.ModelReachable)
	// Ping is advisory; slot calls decide the actual outcome
	assert.Equal(t, StatusCompleted, report.Status)
}

func TestProgressEventsAreEmitted(t *testing.T) {
	store, posting, _ := newFixture()
	orch := New(store, &mockClient{})

	var stages []string
	orch.OnProgress = func(ev ProgressEvent) { stages = append(stages, ev.Stage) }

	_, err := orch.GeneratePosting(context.Background(), posting.ID)
	require.NoError(t, err)

	assert.Contains(t, stages, "start")
	assert.Contains(t, stages, "role")
	assert.Contains(t, stages, "slot")
	assert.Contains(t, stages, "done")
}
