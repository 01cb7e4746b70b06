package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andika-Pratama/be_dashboard_proyek/internal/models"
)

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	u, token := env.seedUser(t, "andika@example.com")

	require.NoError(t, env.DB.Create(&models.Proyek{
		UID: u.UID, Title: "Toko Online", Status: models.StatusDraft,
		Progres: models.ProgresPending, Category: "Website", Price: 1500000,
	}).Error)
	require.NoError(t, env.DB.Create(&models.Proyek{
		UID: u.UID, Title: "Company Profile", Status: models.StatusPublished,
		Progres: models.ProgresSelesai, Category: "Website", Price: 500000,
	}).Error)

	require.NoError(t, env.DB.Create(&models.Category{Name: "Website"}).Error)
	require.NoError(t, env.DB.Create(&models.Framework{Name: "Laravel"}).Error)
	require.NoError(t, env.DB.Create(&models.Framework{Name: "Next.js"}).Error)
	require.NoError(t, env.DB.Create(&models.ManagementAccount{
		Name: "Hosting", Email: "admin@example.com", Password: "x",
	}).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	resp, err := env.App.Test(withSession(req, token))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})

	assert.EqualValues(t, 2, data["total_proyek"])
	assert.EqualValues(t, 1, data["total_accounts"])
	assert.EqualValues(t, 1, data["total_categories"])
	assert.EqualValues(t, 2, data["total_frameworks"])
	assert.EqualValues(t, 2000000, data["total_price"])

	byStatus := data["by_status"].(map[string]interface{})
	assert.EqualValues(t, 1, byStatus["draft"])
	assert.EqualValues(t, 1, byStatus["published"])

	byProgres := data["by_progres"].(map[string]interface{})
	assert.EqualValues(t, 1, byProgres["pending"])
	assert.EqualValues(t, 1, byProgres["selesai"])

	byCategory := data["by_category"].(map[string]interface{})
	assert.EqualValues(t, 2, byCategory["Website"])
}
