package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/radhian/bank-reconciliation/consts"
	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/infra/db/dao"
	"github.com/radhian/bank-reconciliation/infra/db/model"
	"github.com/radhian/bank-reconciliation/infra/locker"
	usecase "github.com/radhian/bank-reconciliation/usecase/reconciliation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAccount int64 = 2002

var fixedNow = time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)

type envelope struct {
	Status  string          `json:"status"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	router  *mux.Router
	dao     dao.DaoMethod
	handler *ReconciliationHandler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.DB().SetMaxOpenConns(1)
	db.LogMode(false)
	require.NoError(t, model.Migrate(db))
	t.Cleanup(func() { db.Close() })

	uc := usecase.NewReconciliationUsecase(db, locker.New(), usecase.WithClock(func() time.Time { return fixedNow }))
	h := NewReconciliationHandler(uc)
	router := mux.NewRouter().StrictSlash(true)
	RegisterReconciliationRoutes(router, h)

	return &testServer{router: router, dao: dao.NewDaoMethod(db), handler: h}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(method, path, reader))

	var resp envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec.Code, resp
}

func (s *testServer) addMovement(t *testing.T, amount, date, reference string) model.TreasuryMovement {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	movement := model.TreasuryMovement{
		BankAccountID: testAccount,
		Date:          d,
		Amount:        decimal.RequireFromString(amount),
		Kind:          consts.MovementKindPayment,
		Description:   "movement " + amount,
		ReferenceID:   reference,
		CreateTime:    fixedNow.Unix(),
		CreateBy:      "treasury",
	}
	require.NoError(t, s.dao.CreateTreasuryMovement(&movement))
	return movement
}

// importBody is a one-line March 2024 statement crediting amount on date.
func importBody(amount, date, reference string) entity.ImportStatementRequest {
	opening := decimal.RequireFromString("1000")
	value := decimal.RequireFromString(amount)
	closing := opening.Add(value)
	return entity.ImportStatementRequest{
		BankAccountID:  testAccount,
		Period:         entity.Period{Year: 2024, Month: 3},
		OpeningBalance: &opening,
		ClosingBalance: &closing,
		Items: []entity.ImportItem{{
			LineNumber:     1,
			Date:           date,
			Description:    "incoming transfer",
			Reference:      reference,
			Debit:          decimal.Zero,
			Credit:         value,
			RunningBalance: &closing,
		}},
		Operator: "alice",
	}
}

func (s *testServer) importStatement(t *testing.T, body entity.ImportStatementRequest) model.BankStatement {
	t.Helper()
	status, resp := s.do(t, http.MethodPost, "/statements", body)
	require.Equal(t, http.StatusCreated, status, resp.Message)

	var statement model.BankStatement
	require.NoError(t, json.Unmarshal(resp.Data, &statement))
	return statement
}

func TestImportAutoMatchAndClose(t *testing.T) {
	s := newTestServer(t)
	s.addMovement(t, "150", "2024-03-05", "INV-1001")
	statement := s.importStatement(t, importBody("150", "2024-03-05", "INV-1001"))
	assert.Equal(t, consts.StatementStatePending, statement.State)

	status, resp := s.do(t, http.MethodPost, fmt.Sprintf("/statements/%d/auto_match", statement.ID), nil)
	require.Equal(t, http.StatusOK, status, resp.Message)
	var result entity.AutoMatchResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, 1, result.MatchedCount)
	assert.Equal(t, consts.StatementStateCompleted, result.State)

	status, resp = s.do(t, http.MethodGet, fmt.Sprintf("/statements/%d/summary", statement.ID), nil)
	require.Equal(t, http.StatusOK, status)
	var summary entity.ReconciliationSummary
	require.NoError(t, json.Unmarshal(resp.Data, &summary))
	assert.Equal(t, int64(1), summary.Matched)
	assert.Equal(t, int64(1), summary.MatchBreakdown[consts.MatchTypeExact])

	status, resp = s.do(t, http.MethodPost, fmt.Sprintf("/statements/%d/close", statement.ID), `{"operator":"bob"}`)
	require.Equal(t, http.StatusOK, status, resp.Message)
	var closed entity.CloseResult
	require.NoError(t, json.Unmarshal(resp.Data, &closed))
	assert.True(t, closed.Closed)
	assert.Equal(t, consts.StatementStateClosed, closed.State)

	status, resp = s.do(t, http.MethodGet, fmt.Sprintf("/statements/%d/history", statement.ID), nil)
	require.Equal(t, http.StatusOK, status)
	var history []model.BankStatementHistory
	require.NoError(t, json.Unmarshal(resp.Data, &history))
	assert.NotEmpty(t, history)
}

func TestRefusedCloseReportsBlockingItems(t *testing.T) {
	s := newTestServer(t)
	statement := s.importStatement(t, importBody("75", "2024-03-11", ""))

	status, resp := s.do(t, http.MethodPost, fmt.Sprintf("/statements/%d/close", statement.ID), `{"operator":"bob"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, entity.ErrUnresolvedDifferences.Code, resp.Code)

	var result entity.CloseResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.False(t, result.Closed)
	assert.Equal(t, consts.StatementStateWithDifferences, result.State)
	assert.Len(t, result.BlockingItems, 1)
}

func TestManualMatchConflict(t *testing.T) {
	s := newTestServer(t)
	first := s.addMovement(t, "150", "2024-03-05", "")
	second := s.addMovement(t, "150", "2024-03-06", "")
	statement := s.importStatement(t, importBody("150", "2024-03-05", ""))

	status, resp := s.do(t, http.MethodGet, fmt.Sprintf("/statements/%d", statement.ID), nil)
	require.Equal(t, http.StatusOK, status)
	var loaded model.BankStatement
	require.NoError(t, json.Unmarshal(resp.Data, &loaded))
	require.Len(t, loaded.Items, 1)
	itemPath := fmt.Sprintf("/statements/%d/items/%d", statement.ID, loaded.Items[0].ID)

	status, resp = s.do(t, http.MethodPost, itemPath+"/match", map[string]interface{}{"movement_id": first.ID, "operator": "alice"})
	require.Equal(t, http.StatusOK, status, resp.Message)
	var item model.BankStatementItem
	require.NoError(t, json.Unmarshal(resp.Data, &item))
	assert.True(t, item.Matched)
	assert.Equal(t, consts.MatchTypeManual, item.MatchType)

	status, resp = s.do(t, http.MethodPost, itemPath+"/match", map[string]interface{}{"movement_id": second.ID, "operator": "alice"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, entity.ErrAlreadyMatched.Code, resp.Code)

	status, resp = s.do(t, http.MethodPost, itemPath+"/unmatch", `{"operator":"alice"}`)
	require.Equal(t, http.StatusOK, status, resp.Message)
	require.NoError(t, json.Unmarshal(resp.Data, &item))
	assert.False(t, item.Matched)
}

func TestSuspenseRoutes(t *testing.T) {
	s := newTestServer(t)
	statement := s.importStatement(t, importBody("42", "2024-03-12", ""))

	status, resp := s.do(t, http.MethodGet, fmt.Sprintf("/statements/%d", statement.ID), nil)
	require.Equal(t, http.StatusOK, status)
	var loaded model.BankStatement
	require.NoError(t, json.Unmarshal(resp.Data, &loaded))
	itemPath := fmt.Sprintf("/statements/%d/items/%d", statement.ID, loaded.Items[0].ID)

	status, resp = s.do(t, http.MethodPost, itemPath+"/suspense/resolve", `{"resolution_notes":"bank fee","operator":"alice"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, entity.ErrNotSuspense.Code, resp.Code)

	status, resp = s.do(t, http.MethodPost, itemPath+"/suspense", `{"notes":"unknown fee","operator":"alice"}`)
	require.Equal(t, http.StatusOK, status, resp.Message)

	status, resp = s.do(t, http.MethodPost, itemPath+"/suspense/resolve", `{"resolution_notes":"bank fee","operator":"alice"}`)
	require.Equal(t, http.StatusOK, status, resp.Message)
	var item model.BankStatementItem
	require.NoError(t, json.Unmarshal(resp.Data, &item))
	assert.True(t, item.IsSuspense)
	assert.True(t, item.SuspenseResolved)
}

func TestListAndAccountRoutes(t *testing.T) {
	s := newTestServer(t)
	s.addMovement(t, "150", "2024-03-05", "")
	s.importStatement(t, importBody("150", "2024-03-07", ""))

	status, resp := s.do(t, http.MethodGet, fmt.Sprintf("/statements?account_id=%d&state=PENDING", testAccount), nil)
	require.Equal(t, http.StatusOK, status, resp.Message)
	var page entity.StatementPage
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Equal(t, int64(1), page.Total)

	status, resp = s.do(t, http.MethodGet, fmt.Sprintf("/accounts/%d/unmatched_movements?from=2024-03-01&to=2024-03-31", testAccount), nil)
	require.Equal(t, http.StatusOK, status, resp.Message)
	var movements []model.TreasuryMovement
	require.NoError(t, json.Unmarshal(resp.Data, &movements))
	assert.Len(t, movements, 1)

	status, resp = s.do(t, http.MethodGet, fmt.Sprintf("/accounts/%d/suggestions?limit=5", testAccount), nil)
	require.Equal(t, http.StatusOK, status, resp.Message)
	var candidates []entity.MatchCandidate
	require.NoError(t, json.Unmarshal(resp.Data, &candidates))
	require.Len(t, candidates, 1)
	assert.Equal(t, consts.MatchTypeFuzzy, candidates[0].MatchType)
}

func TestRequestErrors(t *testing.T) {
	s := newTestServer(t)
	s.importStatement(t, importBody("10", "2024-03-04", ""))

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"non numeric id", http.MethodGet, "/statements/abc", nil, http.StatusBadRequest, entity.ErrInvalidRequest.Code},
		{"unknown statement", http.MethodGet, "/statements/999", nil, http.StatusNotFound, entity.ErrNotFound.Code},
		{"unknown field", http.MethodPost, "/statements", `{"bank_account":1}`, http.StatusBadRequest, entity.ErrInvalidRequest.Code},
		{"duplicate period", http.MethodPost, "/statements", importBody("10", "2024-03-04", ""), http.StatusBadRequest, entity.ErrDuplicatePeriod.Code},
		{"bad state filter", http.MethodGet, "/statements?state=DONE", nil, http.StatusBadRequest, entity.ErrInvalidRequest.Code},
		{"bad movement kind", http.MethodGet, "/accounts/1/unmatched_movements?kind=GIFT", nil, http.StatusBadRequest, entity.ErrInvalidRequest.Code},
		{"missing operator", http.MethodPost, "/statements/1/close", `{}`, http.StatusBadRequest, entity.ErrInvalidRequest.Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestReconciliationExecution(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, ErrNoStatementHandled, s.handler.ReconciliationExecution(context.Background()))

	s.addMovement(t, "150", "2024-03-05", "INV-1001")
	statement := s.importStatement(t, importBody("150", "2024-03-05", "INV-1001"))

	require.NoError(t, s.handler.ReconciliationExecution(context.Background()))
	loaded, err := s.dao.GetBankStatementByID(statement.ID)
	require.NoError(t, err)
	assert.Equal(t, consts.StatementStateCompleted, loaded.State)
	assert.Equal(t, int64(1), loaded.MatchedCount)

	assert.Equal(t, ErrNoStatementHandled, s.handler.ReconciliationExecution(context.Background()))
}
