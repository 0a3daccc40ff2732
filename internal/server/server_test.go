package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/fiscalbr/classtrib/internal/auth"
	authdomain "github.com/fiscalbr/classtrib/internal/auth/domain"
	"github.com/fiscalbr/classtrib/internal/cache"
	"github.com/fiscalbr/classtrib/internal/classtrib"
	classtribdomain "github.com/fiscalbr/classtrib/internal/classtrib/domain"
	"github.com/fiscalbr/classtrib/internal/clock"
	"github.com/fiscalbr/classtrib/internal/config"
	"github.com/fiscalbr/classtrib/internal/importer"
	"github.com/fiscalbr/classtrib/internal/ncm"
	ncmdomain "github.com/fiscalbr/classtrib/internal/ncm/domain"
	"github.com/fiscalbr/classtrib/internal/reference"
	"github.com/fiscalbr/classtrib/internal/report"
	"github.com/fiscalbr/classtrib/internal/seed"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Environment:   "test",
		HTTPAddr:      ":0",
		AuthJWTSecret: "test-secret",
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin-pass",
		AdminName:     "Administrador",
	}

	var engine *gin.Engine
	app := fxtest.New(t,
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Provide(func() *zap.Logger { return zaptest.NewLogger(t) }),
		fx.Provide(func() clock.Clock {
			return clock.NewFakeClock(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
		}),
		fx.Provide(func() (*snowflake.Node, error) { return snowflake.NewNode(1) }),
		fx.Provide(func() *config.ReportConfigHolder {
			return config.NewStaticReportConfigHolder(config.DefaultReportConfig())
		}),
		fx.Provide(func() (*gorm.DB, error) { return seededDB(cfg) }),
		cache.Module,
		classtrib.Module,
		ncm.Module,
		reference.Module,
		report.Module,
		importer.Module,
		auth.Module,
		fx.Provide(NewMetrics),
		fx.Provide(NewEngine),
		fx.Invoke(NewServer),
		fx.Populate(&engine),
	)
	app.RequireStart()
	t.Cleanup(app.RequireStop)

	return engine
}

func seededDB(cfg config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&authdomain.User{},
		&ncmdomain.Chapter{}, &ncmdomain.Position{}, &ncmdomain.Subposition{},
		&ncmdomain.Ncm{}, &classtribdomain.ClassTrib{},
	)
	if err != nil {
		return nil, err
	}

	node, err := snowflake.NewNode(2)
	if err != nil {
		return nil, err
	}

	horse := ncmdomain.Ncm{
		ID: node.Generate(), Code: "01012100",
		Description: "Cavalos reprodutores de raça pura",
		ChapterCode: "01", PositionCode: "0101", SubpositionCode: "010121",
	}
	beer := ncmdomain.Ncm{
		ID: node.Generate(), Code: "22030000",
		Description: "Cervejas de malte",
		ChapterCode: "22", PositionCode: "2203", SubpositionCode: "220300",
	}
	for _, m := range []any{
		&ncmdomain.Chapter{Code: "01", Description: "Animais vivos"},
		&ncmdomain.Chapter{Code: "22", Description: "Bebidas"},
		&ncmdomain.Position{Code: "0101", Description: "Cavalos, asininos e muares"},
		&ncmdomain.Subposition{Code: "010121", Description: "Reprodutores de raça pura"},
		&horse, &beer,
		&classtribdomain.ClassTrib{ID: node.Generate(), NcmID: horse.ID, Code: 1, CstIbsCbs: "000", Description: "Tributação integral"},
		&classtribdomain.ClassTrib{ID: node.Generate(), NcmID: horse.ID, Code: 7, CstIbsCbs: "200", Description: "Redução de alíquota", PRedIBS: 50, PRedCBS: 50},
		&classtribdomain.ClassTrib{ID: node.Generate(), NcmID: beer.ID, Code: 200, CstIbsCbs: "400", Description: "Isenção"},
	} {
		if err := db.Create(m).Error; err != nil {
			return nil, err
		}
	}

	if err := seed.EnsureAdminUser(db, cfg); err != nil {
		return nil, err
	}
	return db, nil
}

func doRequest(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func loginToken(t *testing.T, engine *gin.Engine) string {
	t.Helper()

	body := `{"email":"admin@example.com","password":"admin-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := doRequest(engine, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealth(t *testing.T) {
	engine := newTestEngine(t)

	w := doRequest(engine, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateReport_Text(t *testing.T) {
	engine := newTestEngine(t)

	w := doRequest(engine, httptest.NewRequest(http.MethodGet,
		"/api/relatorio?codigos=01012100,22030000&formato=txt", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	body := w.Body.String()
	assert.Contains(t, body, "01012100 | Cavalos reprodutores de raça pura | 000 | 000001 | 10.00% | 90.00%")
	assert.Contains(t, body, "22030000 | Cervejas de malte | 400 | 000200 | 0% | 0%")
	assert.NotContains(t, body, "Gerado por:")
}

func TestGenerateReport_DefaultsToPDF(t *testing.T) {
	engine := newTestEngine(t)

	w := doRequest(engine, httptest.NewRequest(http.MethodGet,
		"/api/relatorio?codigos=01012100", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}

func TestGenerateReport_InvalidFormat(t *testing.T) {
	engine := newTestEngine(t)

	w := doRequest(engine, httptest.NewRequest(http.MethodGet,
		"/api/relatorio?codigos=01012100&formato=docx", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateReport_MissingCodes(t *testing.T) {
	engine := newTestEngine(t)

	w := doRequest(engine, httptest.NewRequest(http.MethodGet, "/api/relatorio", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateReport_UnknownCodes(t *testing.T) {
	engine := newTestEngine(t)

	w := doRequest(engine, httptest.NewRequest(http.MethodGet,
		"/api/relatorio?codigos=99999999&formato=txt", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateReport_Selection(t *testing.T) {
	engine := newTestEngine(t)

	w := doRequest(engine, httptest.NewRequest(http.MethodGet,
		"/api/relatorio?codigos=01012100,22030000&formato=txt&selected=01012100-000007", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "000007")
	assert.NotContains(t, body, "000001")
	assert.NotContains(t, body, "Cervejas")
}

func TestGenerateReport_AuthenticatedStamp(t *testing.T) {
	engine := newTestEngine(t)
	token := loginToken(t, engine)

	req := httptest.NewRequest(http.MethodGet,
		"/api/relatorio?codigos=01012100&formato=txt", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := doRequest(engine, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, w.Body.String(), "Gerado por: Administrador")
}

func TestGenerateReport_BadTokenStillServes(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet,
		"/api/relatorio?codigos=01012100&formato=txt", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := doRequest(engine, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.NotContains(t, w.Body.String(), "Gerado por:")
}

func TestSearchNcm(t *testing.T) {
	engine := newTestEngine(t)

	w := doRequest(engine, httptest.NewRequest(http.MethodGet, "/api/ncm?q=cerveja", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []struct {
			Code string `json:"codigo"`
		} `json:"items"`
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(1), resp.Total)
	assert.Equal(t, "22030000", resp.Items[0].Code)
}

func TestGetNcm(t *testing.T) {
	engine := newTestEngine(t)

	w := doRequest(engine, httptest.NewRequest(http.MethodGet, "/api/ncm/0101.21.00", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Code            string `json:"codigo"`
		Classifications []struct {
			Code    string `json:"codigo"`
			IbsRate string `json:"aliquotaIBS"`
			Exempt  bool   `json:"isento"`
		} `json:"classificacoes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "01012100", resp.Code)
	require.Len(t, resp.Classifications, 2)
	assert.Equal(t, "000001", resp.Classifications[0].Code)
	assert.Equal(t, "10%", resp.Classifications[0].IbsRate)
}

func TestGetNcm_NotFound(t *testing.T) {
	engine := newTestEngine(t)

	w := doRequest(engine, httptest.NewRequest(http.MethodGet, "/api/ncm/99999999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetNcm_InvalidCode(t *testing.T) {
	engine := newTestEngine(t)

	w := doRequest(engine, httptest.NewRequest(http.MethodGet, "/api/ncm/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListChapters(t *testing.T) {
	engine := newTestEngine(t)

	w := doRequest(engine, httptest.NewRequest(http.MethodGet, "/api/capitulos", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []struct {
			Code string `json:"codigo"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "01", resp.Data[0].Code)
}

func TestLookupBatch(t *testing.T) {
	engine := newTestEngine(t)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetCellValue(sheet, "A1", "NCM")
	_ = f.SetCellValue(sheet, "A2", "0101.21.00")
	_ = f.SetCellValue(sheet, "A3", "99999999")
	workbook, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "codigos.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/ncm/lote", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := doRequest(engine, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Found []struct {
			Code            string `json:"codigo"`
			Classifications []struct {
				Code    string `json:"codigo"`
				IbsRate string `json:"aliquotaIBS"`
			} `json:"classificacoes"`
		} `json:"encontrados"`
		Missing []string `json:"naoEncontrados"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Found, 1)
	assert.Equal(t, "01012100", resp.Found[0].Code)
	require.Len(t, resp.Found[0].Classifications, 2)
	assert.Equal(t, "000001", resp.Found[0].Classifications[0].Code)
	assert.Equal(t, "10%", resp.Found[0].Classifications[0].IbsRate)
	assert.Equal(t, []string{"99999999"}, resp.Missing)
}

func TestLookupBatch_JSONBody(t *testing.T) {
	engine := newTestEngine(t)

	payload := `{"codigos": ["0101.21.00", "2203.00.00", "99999999"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/ncm/lote", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := doRequest(engine, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Found []struct {
			Code string `json:"codigo"`
		} `json:"encontrados"`
		Missing []string `json:"naoEncontrados"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Found, 2)
	assert.Equal(t, []string{"99999999"}, resp.Missing)
}

func TestLookupBatch_MalformedJSON(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/api/ncm/lote", strings.NewReader(`{"codigos": []`))
	req.Header.Set("Content-Type", "application/json")
	w := doRequest(engine, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}

func TestAuthMe(t *testing.T) {
	engine := newTestEngine(t)
	token := loginToken(t, engine)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := doRequest(engine, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "admin@example.com", resp.Email)
	assert.Equal(t, "admin", resp.Role)
}

func TestAuthMe_NoToken(t *testing.T) {
	engine := newTestEngine(t)

	w := doRequest(engine, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	engine := newTestEngine(t)

	body := `{"email":"admin@example.com","password":"nope"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := doRequest(engine, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminUsers_CRUD(t *testing.T) {
	engine := newTestEngine(t)
	token := loginToken(t, engine)

	create := `{"email":"maria@example.com","name":"Maria Souza","cpfCnpj":"123.456.789-00","password":"s3cret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/users", strings.NewReader(create))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := doRequest(engine, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	req = httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = doRequest(engine, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "maria@example.com")
	assert.Contains(t, w.Body.String(), `"total":2`)

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/users/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = doRequest(engine, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAdminUsers_DeactivateBlocksLogin(t *testing.T) {
	engine := newTestEngine(t)
	adminToken := loginToken(t, engine)

	create := `{"email":"joao@example.com","name":"João Lima","password":"s3cret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/users", strings.NewReader(create))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := doRequest(engine, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	patch := `{"active": false}`
	req = httptest.NewRequest(http.MethodPatch, "/api/admin/users/"+created.ID, strings.NewReader(patch))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = doRequest(engine, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"active":false`)

	body := `{"email":"joao@example.com","password":"s3cret-pass"}`
	loginReq := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	loginReq.Header.Set("Content-Type", "application/json")
	w = doRequest(engine, loginReq)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminUsers_ForbiddenForNonAdmin(t *testing.T) {
	engine := newTestEngine(t)
	adminToken := loginToken(t, engine)

	create := `{"email":"user@example.com","name":"Usuária","password":"s3cret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/users", strings.NewReader(create))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := doRequest(engine, req)
	require.Equal(t, http.StatusCreated, w.Code)

	body := `{"email":"user@example.com","password":"s3cret-pass"}`
	loginReq := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	loginReq.Header.Set("Content-Type", "application/json")
	w = doRequest(engine, loginReq)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	req = httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	w = doRequest(engine, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	engine := newTestEngine(t)

	doRequest(engine, httptest.NewRequest(http.MethodGet, "/health", nil))

	w := doRequest(engine, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "classtrib_http_requests_total")
}
