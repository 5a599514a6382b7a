package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AtzinLeyva/TesisRepositorio/backend/config"
	"github.com/AtzinLeyva/TesisRepositorio/backend/models"
	"github.com/AtzinLeyva/TesisRepositorio/backend/routes"
	"github.com/AtzinLeyva/TesisRepositorio/backend/search"
	"github.com/AtzinLeyva/TesisRepositorio/backend/services"
	"github.com/AtzinLeyva/TesisRepositorio/backend/utils"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
	idx *search.Index
}

func setupTestApp(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{JWTSecret: "testsecret", ServerPort: "8080"}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))

	idx, err := search.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	app := fiber.New()
	routes.SetupRoutes(app, db, idx, cfg)

	return &testEnv{app: app, db: db, cfg: cfg, idx: idx}
}

// createUser registers an account directly through the service and returns
// it together with a valid token.
func (env *testEnv) createUser(t *testing.T, username string, role models.Role) (*models.User, string) {
	t.Helper()

	user, err := services.NewUserService(env.db).Register(services.RegisterUserInput{
		Username: username,
		Password: "secret-password",
		Role:     string(role),
		Name:     username,
	})
	require.NoError(t, err)

	token, err := utils.GenerateJWTToken(user.ID, env.cfg)
	require.NoError(t, err)
	return user, token
}

func (env *testEnv) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}
