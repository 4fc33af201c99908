package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/banyumasfresh/shop/internal/config"
	"github.com/banyumasfresh/shop/internal/files"
	"github.com/banyumasfresh/shop/internal/models"
	"github.com/banyumasfresh/shop/internal/service/order"
)

type testEnv struct {
	E   *echo.Echo
	DB  *gorm.DB
	U   *UserHandler
	P   *ProductHandler
	Cat *CategoryHandler
	C   *CartHandler
	O   *OrderHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	svc := &order.Service{DB: db}
	secret := []byte("test-secret")

	store, err := files.NewStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	return &testEnv{
		E:   echo.New(),
		DB:  db,
		U:   &UserHandler{DB: db, JWTSecret: secret, PublicURL: "http://localhost:8080"},
		P:   &ProductHandler{DB: db, Index: "product", Files: store},
		Cat: &CategoryHandler{DB: db},
		C:   &CartHandler{Service: svc},
		O:   &OrderHandler{Service: svc},
	}
}

func (env *testEnv) doJSONRequest(t *testing.T, method, target string, body any) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// doMultipartRequest builds a multipart/form-data request with text fields
// and png image parts keyed by field name.
func (env *testEnv) doMultipartRequest(t *testing.T, method, target string, fields map[string]string, images map[string][]string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, names := range images {
		for _, name := range names {
			hdr := make(textproto.MIMEHeader)
			hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, name))
			hdr.Set("Content-Type", "image/png")
			part, err := w.CreatePart(hdr)
			require.NoError(t, err)
			_, err = part.Write([]byte("not-really-a-png"))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) seedCategory(t *testing.T, name string) models.Category {
	t.Helper()
	cat := models.Category{Name: name}
	require.NoError(t, env.DB.Create(&cat).Error)
	return cat
}

func (env *testEnv) seedProduct(t *testing.T, name, price string, categoryID uint) models.Product {
	t.Helper()
	p := models.Product{
		Name:        name,
		Description: "test product",
		Price:       decimal.RequireFromString(price),
		CategoryID:  categoryID,
	}
	require.NoError(t, env.DB.Create(&p).Error)
	return p
}

func (env *testEnv) seedUser(t *testing.T, email string) models.User {
	t.Helper()
	u := models.User{Name: "test", Email: email, PasswordHash: "x"}
	require.NoError(t, env.DB.Create(&u).Error)
	return u
}

func validOrderBody(userID uint, items ...map[string]any) map[string]any {
	return map[string]any{
		"orderItems":       items,
		"shippingAddress1": "Jalan Raya 1",
		"city":             "Purwokerto",
		"zip":              "53111",
		"country":          "Indonesia",
		"phone":            "+62-811-000-111",
		"status":           "Pending",
		"user":             userID,
	}
}
