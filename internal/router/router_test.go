package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/config"
	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/database"
	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/models"
	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

type testEnv struct {
	db     *gorm.DB
	engine *gin.Engine
	userA  models.User
	userB  models.User
	accA1  models.Account
	accA2  models.Account
	accB1  models.Account
	tokenA string
	tokenB string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.JWT.Secret = testSecret
	cfg.JWT.ExpireHours = 1

	env := &testEnv{db: db, engine: SetupRouter(cfg, db)}

	env.userA = models.User{Name: "User #1", Mail: "user@mail.com", PasswordHash: "x"}
	env.userB = models.User{Name: "User #2", Mail: "user2@mail.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&env.userA).Error)
	require.NoError(t, db.Create(&env.userB).Error)

	env.accA1 = models.Account{Name: "Acc #1", UserID: env.userA.ID}
	env.accA2 = models.Account{Name: "Acc #2", UserID: env.userA.ID}
	env.accB1 = models.Account{Name: "Acc #3", UserID: env.userB.ID}
	for _, acc := range []*models.Account{&env.accA1, &env.accA2, &env.accB1} {
		require.NoError(t, db.Create(acc).Error)
	}

	env.tokenA, err = util.GenerateToken(testSecret, env.userA.ID, time.Hour)
	require.NoError(t, err)
	env.tokenB, err = util.GenerateToken(testSecret, env.userB.ID, time.Hour)
	require.NoError(t, err)

	return env
}

// do performs a JSON request against the in-memory engine.
func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	return w
}

func (env *testEnv) transferBody(amount float64) map[string]any {
	return map[string]any{
		"description": "Regular Transfer",
		"amount":      amount,
		"date":        time.Now().UTC().Format(time.RFC3339),
		"acc_ori_id":  env.accA1.ID,
		"acc_dest_id": env.accA2.ID,
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestTransfersRequireToken(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/v1/transfers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListOnlyOwnTransfers(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/transfers", env.tokenA, env.transferBody(100))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/v1/transfers", env.tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.Transfer
	decodeBody(t, w, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, "Regular Transfer", mine[0].Description)

	// the other user sees nothing
	w = env.do(t, http.MethodGet, "/v1/transfers", env.tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var others []models.Transfer
	decodeBody(t, w, &others)
	assert.Empty(t, others)
}

func TestCreateTransferGeneratesEntries(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/transfers", env.tokenA, env.transferBody(100))
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Transfer
	decodeBody(t, w, &created)
	assert.Equal(t, "Regular Transfer", created.Description)
	assert.Equal(t, env.userA.ID, created.UserID)

	var transactions []models.Transaction
	require.NoError(t, env.db.Where("transfer_id = ?", created.ID).
		Order("amount ASC").
		Find(&transactions).Error)
	require.Len(t, transactions, 2)
	assert.Equal(t, "-100.00", transactions[0].Amount.StringFixed(2))
	assert.Equal(t, "100.00", transactions[1].Amount.StringFixed(2))
	assert.Equal(t, env.accA1.ID, transactions[0].AccID)
	assert.Equal(t, env.accA2.ID, transactions[1].AccID)
}

func TestCreateTransferAcceptsHistoricalAmountSpelling(t *testing.T) {
	env := newTestEnv(t)

	// old clients send the misspelled "ammount" field
	body := env.transferBody(100)
	delete(body, "amount")
	body["ammount"] = 100

	w := env.do(t, http.MethodPost, "/v1/transfers", env.tokenA, body)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Transfer
	decodeBody(t, w, &created)
	assert.Equal(t, "100.00", created.Amount.StringFixed(2))

	var transactions []models.Transaction
	require.NoError(t, env.db.Where("transfer_id = ?", created.ID).
		Order("amount ASC").
		Find(&transactions).Error)
	require.Len(t, transactions, 2)
	assert.Equal(t, "-100.00", transactions[0].Amount.StringFixed(2))
	assert.Equal(t, "100.00", transactions[1].Amount.StringFixed(2))
}

func TestCreateTransferValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		mutate  func(map[string]any)
		wantMsg string
	}{
		{
			name:    "missing description",
			mutate:  func(b map[string]any) { delete(b, "description") },
			wantMsg: "description is a required attribute",
		},
		{
			name:    "missing amount",
			mutate:  func(b map[string]any) { delete(b, "amount") },
			wantMsg: "amount is a required attribute",
		},
		{
			name:    "missing date",
			mutate:  func(b map[string]any) { delete(b, "date") },
			wantMsg: "date is a required attribute",
		},
		{
			name:    "missing origin account",
			mutate:  func(b map[string]any) { delete(b, "acc_ori_id") },
			wantMsg: "origin account is a required attribute",
		},
		{
			name:    "missing destination account",
			mutate:  func(b map[string]any) { delete(b, "acc_dest_id") },
			wantMsg: "destination account is a required attribute",
		},
		{
			name:    "same accounts",
			mutate:  func(b map[string]any) { b["acc_dest_id"] = env.accA1.ID },
			wantMsg: "origin and destination accounts must not be the same",
		},
		{
			name:   "foreign account",
			mutate: func(b map[string]any) { b["acc_ori_id"] = env.accB1.ID },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := env.transferBody(100)
			tc.mutate(body)

			w := env.do(t, http.MethodPost, "/v1/transfers", env.tokenA, body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp map[string]string
			decodeBody(t, w, &resp)
			require.Contains(t, resp, "error")
			if tc.wantMsg != "" {
				assert.Equal(t, tc.wantMsg, resp["error"])
			}

			// a failed request writes no rows
			var n int64
			require.NoError(t, env.db.Model(&models.Transfer{}).Count(&n).Error)
			assert.Zero(t, n)
		})
	}
}

func TestGetTransferNotFoundForOtherUser(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/transfers", env.tokenA, env.transferBody(100))
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Transfer
	decodeBody(t, w, &created)

	path := "/v1/transfers/" + itoa(created.ID)

	w = env.do(t, http.MethodGet, path, env.tokenA, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, path, env.tokenB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// malformed ids are a client error, not a lookup miss
	w = env.do(t, http.MethodGet, "/v1/transfers/abc", env.tokenA, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTransferReplacesEntries(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/transfers", env.tokenA, env.transferBody(100))
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Transfer
	decodeBody(t, w, &created)

	body := env.transferBody(500)
	body["description"] = "Transfer Update"
	w = env.do(t, http.MethodPut, "/v1/transfers/"+itoa(created.ID), env.tokenA, body)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Transfer
	decodeBody(t, w, &updated)
	assert.Equal(t, "Transfer Update", updated.Description)
	assert.Equal(t, "500.00", updated.Amount.StringFixed(2))

	var transactions []models.Transaction
	require.NoError(t, env.db.Where("transfer_id = ?", created.ID).
		Order("amount ASC").
		Find(&transactions).Error)
	require.Len(t, transactions, 2)
	assert.Equal(t, "-500.00", transactions[0].Amount.StringFixed(2))
	assert.Equal(t, "500.00", transactions[1].Amount.StringFixed(2))
}

func TestAccountCRUDAndDeleteRefusal(t *testing.T) {
	env := newTestEnv(t)

	// create
	w := env.do(t, http.MethodPost, "/v1/accounts", env.tokenA, map[string]any{"name": "Savings"})
	require.Equal(t, http.StatusCreated, w.Code)
	var account models.Account
	decodeBody(t, w, &account)
	assert.Equal(t, env.userA.ID, account.UserID)

	// another user's account is invisible
	w = env.do(t, http.MethodGet, "/v1/accounts/"+itoa(env.accB1.ID), env.tokenA, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// an account referenced by ledger entries cannot be deleted
	w = env.do(t, http.MethodPost, "/v1/transfers", env.tokenA, env.transferBody(100))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodDelete, "/v1/accounts/"+itoa(env.accA1.ID), env.tokenA, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	decodeBody(t, w, &resp)
	assert.Equal(t, "account has associated transactions", resp["error"])

	// an untouched account can be deleted
	w = env.do(t, http.MethodDelete, "/v1/accounts/"+itoa(account.ID), env.tokenA, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestExportCSVStatement(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/transfers", env.tokenA, env.transferBody(100))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/v1/transactions/export/csv", env.tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")

	body := w.Body.String()
	assert.Contains(t, body, "Description,Date,Amount,Type,Account")
	assert.Contains(t, body, "-100.00")
	assert.Contains(t, body, "100.00")
	assert.Contains(t, body, "Transfer to acc #"+itoa(env.accA2.ID))

	// another user's statement is empty apart from the header
	w = env.do(t, http.MethodGet, "/v1/transactions/export/csv", env.tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Transfer to acc #")
}

func TestSignupAndSignin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/signup", "", map[string]any{
		"name":     "New User",
		"mail":     "new@mail.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/auth/signin", "", map[string]any{
		"mail":     "new@mail.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, w, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "new@mail.com", resp.User.Mail)

	w = env.do(t, http.MethodPost, "/auth/signin", "", map[string]any{
		"mail":     "new@mail.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
