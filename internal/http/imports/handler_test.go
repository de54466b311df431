package imports_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cashly/internal/extract"
	"github.com/MrJamesThe3rd/cashly/internal/http/imports"
	"github.com/MrJamesThe3rd/cashly/internal/importer"
	"github.com/MrJamesThe3rd/cashly/internal/ocr"
	"github.com/MrJamesThe3rd/cashly/internal/transaction"
)

type fixture struct {
	repo       *transaction.MockRepository
	recognizer *ocr.MockRecognizer
	router     http.Handler
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	rec := ocr.NewMockRecognizer(ctrl)

	clock := func() time.Time { return time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC) }
	importSvc := importer.NewService(extract.NewWithClock(clock), rec)

	h := imports.NewHandler(importSvc, transaction.NewService(repo), 1<<20)

	r := chi.NewRouter()
	r.Route("/import", h.Routes)

	return fixture{repo: repo, recognizer: rec, router: r}
}

type candidate struct {
	Type        string `json:"type"`
	AmountCents int64  `json:"amount_cents"`
	Date        string `json:"date"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id"`
}

type candidatesBody struct {
	Candidates []candidate `json:"candidates"`
	Message    string      `json:"message"`
}

func multipartBody(t *testing.T, field string, files map[string]string, order ...string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	for _, name := range order {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)

		_, err = io.WriteString(fw, files[name])
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func expectBatch(t *testing.T, repo *transaction.MockRepository, wantLen int) *[]*transaction.Transaction {
	t.Helper()

	itx := transaction.NewMockImportTx(gomock.NewController(t))

	var stored []*transaction.Transaction

	repo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(itx, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(wantLen)).
		DoAndReturn(func(_ context.Context, txs []*transaction.Transaction) error {
			stored = txs
			return nil
		})
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	return &stored
}

func TestHandler_Text(t *testing.T) {
	f := newFixture(t)

	body := "03/11/2025\nMercadona -23,40 €\nNómina 1.850,00 €\n"

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import/text", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got candidatesBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.Equal(t, []candidate{
		{Type: "expense", AmountCents: 2340, Date: "2025-11-03", Description: "Mercadona", CategoryID: "other_exp"},
		{Type: "income", AmountCents: 185000, Date: "2025-11-03", Description: "Nómina", CategoryID: "other_inc"},
	}, got.Candidates)
}

func TestHandler_Text_NothingFound(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import/text", strings.NewReader("sin importes")))
	require.Equal(t, http.StatusOK, rec.Code)

	var got candidatesBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Empty(t, got.Candidates)
	assert.Equal(t, importer.ErrNoCandidates.Error(), got.Message)
}

func TestHandler_Images(t *testing.T) {
	f := newFixture(t)

	gomock.InOrder(
		f.recognizer.EXPECT().Recognize(gomock.Any(), gomock.Any()).Return("Cafetería 2,10 €", nil),
		f.recognizer.EXPECT().Recognize(gomock.Any(), gomock.Any()).Return("Farmacia -8,95 €", nil),
	)

	body, contentType := multipartBody(t, "files",
		map[string]string{"1.png": "img1", "2.png": "img2"}, "1.png", "2.png")

	req := httptest.NewRequest(http.MethodPost, "/import/images", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got candidatesBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Candidates, 2)
	assert.Equal(t, "Cafetería", got.Candidates[0].Description)
	assert.Equal(t, "Farmacia", got.Candidates[1].Description)
	assert.Equal(t, "expense", got.Candidates[1].Type)
}

func TestHandler_Images_NoFiles(t *testing.T) {
	f := newFixture(t)

	body, contentType := multipartBody(t, "other", map[string]string{"a.png": "x"}, "a.png")

	req := httptest.NewRequest(http.MethodPost, "/import/images", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Statement(t *testing.T) {
	f := newFixture(t)

	csv := "Fecha;Concepto;Importe\n03/11/2025;COMPRA MERCADONA;-45,90\n"
	body, contentType := multipartBody(t, "file", map[string]string{"extracto.csv": csv}, "extracto.csv")

	req := httptest.NewRequest(http.MethodPost, "/import/statement", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got candidatesBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []candidate{
		{Type: "expense", AmountCents: 4590, Date: "2025-11-03", Description: "COMPRA MERCADONA", CategoryID: "other_exp"},
	}, got.Candidates)
}

func TestHandler_Statement_UnknownLayout(t *testing.T) {
	f := newFixture(t)

	body, contentType := multipartBody(t, "file", map[string]string{"x.csv": "a;b\n1;2\n"}, "x.csv")

	req := httptest.NewRequest(http.MethodPost, "/import/statement", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandler_JSONBackup(t *testing.T) {
	f := newFixture(t)
	stored := expectBatch(t, f.repo, 1)

	backup := `[{"type":"expense","amountCents":1999,"categoryId":"subscriptions","date":"2025-02-01","note":"Música"},{"type":"expense"}]`
	body, contentType := multipartBody(t, "file", map[string]string{"cashly.json": backup}, "cashly.json")

	req := httptest.NewRequest(http.MethodPost, "/import/json", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"imported":1,"skipped":1}`, rec.Body.String())

	require.Len(t, *stored, 1)
	assert.Equal(t, "Música", (*stored)[0].Note)
}

func TestHandler_JSONBackup_NotArray(t *testing.T) {
	f := newFixture(t)

	body, contentType := multipartBody(t, "file", map[string]string{"cashly.json": `{"type":"income"}`}, "cashly.json")

	req := httptest.NewRequest(http.MethodPost, "/import/json", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Confirm(t *testing.T) {
	f := newFixture(t)
	stored := expectBatch(t, f.repo, 1)

	reqBody := `{
		"candidates": [
			{"type":"expense","amount_cents":2340,"date":"2025-11-03","description":"Mercadona","category_id":"groceries"},
			{"type":"income","amount_cents":185000,"date":"2025-11-03","description":"Nómina","category_id":"salary"}
		],
		"selected": [0, 0, 7]
	}`

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import/confirm", strings.NewReader(reqBody)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"imported":1,"skipped":1}`, rec.Body.String())

	require.Len(t, *stored, 1)
	assert.Equal(t, "groceries", (*stored)[0].CategoryID)
	assert.Equal(t, int64(2340), (*stored)[0].Amount)
}

func TestHandler_Confirm_BadDate(t *testing.T) {
	f := newFixture(t)

	reqBody := `{"candidates":[{"type":"expense","amount_cents":1,"date":"03/11/2025"}],"selected":[0]}`

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import/confirm", strings.NewReader(reqBody)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
