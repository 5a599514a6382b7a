package controllers_test

import (
	"testing"

	"github.com/AtzinLeyva/TesisRepositorio/backend/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := setupTestApp(t)

	resp := env.request(t, "POST", "/api/auth/register", "", map[string]string{
		"username": "alumno1",
		"password": "secret-password",
		"role":     "student",
		"name":     "Alumno Uno",
		"boleta":   "2020630001",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	resp = env.request(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "alumno1",
		"password": "secret-password",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	data = body["data"].(map[string]interface{})
	token := data["token"].(string)
	require.NotEmpty(t, token)

	resp = env.request(t, "GET", "/api/user/profile", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, "alumno1", data["username"])
	assert.Equal(t, "student", data["role"])
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := setupTestApp(t)

	payload := map[string]string{
		"username": "alumno1",
		"password": "secret-password",
		"role":     "student",
		"name":     "Alumno Uno",
	}
	resp := env.request(t, "POST", "/api/auth/register", "", payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = env.request(t, "POST", "/api/auth/register", "", payload)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestLoginRecordsAuditTrail(t *testing.T) {
	env := setupTestApp(t)
	user, _ := env.createUser(t, "alumno1", models.RoleStudent)

	resp := env.request(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "alumno1",
		"password": "secret-password",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, env.db.Model(&models.LoginHistory{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLoginSurvivesAuditFailure(t *testing.T) {
	env := setupTestApp(t)
	env.createUser(t, "alumno1", models.RoleStudent)

	// Audit writes are refused, but logging in must still work.
	require.NoError(t, env.db.Exec(
		`CREATE TRIGGER block_login_history BEFORE INSERT ON login_histories
		 BEGIN SELECT RAISE(ABORT, 'forced failure'); END`).Error)

	resp := env.request(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "alumno1",
		"password": "secret-password",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := setupTestApp(t)
	env.createUser(t, "alumno1", "student")

	resp := env.request(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "alumno1",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := setupTestApp(t)

	resp := env.request(t, "GET", "/api/theses/", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
