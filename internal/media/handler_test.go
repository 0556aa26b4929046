package media_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/craftfolio/cms/internal/database"
	"github.com/craftfolio/cms/internal/models"
	"github.com/craftfolio/cms/internal/testutils"
	"github.com/stretchr/testify/assert"
)

// createMultipartForm builds a single-file form with an explicit mime type.
func createMultipartForm(filename, mimeType string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", mimeType)
	part, _ := writer.CreatePart(h)
	part.Write(content)

	for key, val := range fields {
		writer.WriteField(key, val)
	}

	contentType := writer.FormDataContentType()
	writer.Close()

	return body, contentType
}

func TestUploadMediaHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)

	editor := testutils.CreateTestUser(t, database.DB, "editor@test.com", "password", "editor")
	token := testutils.GetAuthToken(t, editor.ID, editor.Role.Name)

	t.Run("Success - Upload image", func(t *testing.T) {
		body, contentType := createMultipartForm("photo.jpg", "image/jpeg", []byte("fake image content"), map[string]string{
			"pageContext": "hero",
		})

		req := httptest.NewRequest("POST", "/api/admin/upload", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result struct {
			Success      bool   `json:"success"`
			URL          string `json:"url"`
			FileName     string `json:"fileName"`
			OriginalName string `json:"originalName"`
			Size         int64  `json:"size"`
			Type         string `json:"type"`
			UploadedAt   string `json:"uploadedAt"`
			PublicID     string `json:"publicId"`
		}
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		resp.Body.Close()

		assert.True(t, result.Success)
		assert.NotEmpty(t, result.URL)
		assert.Equal(t, "photo.jpg", result.OriginalName)
		assert.Equal(t, "image/jpeg", result.Type)
		assert.NotEmpty(t, result.PublicID)
		assert.NotEmpty(t, result.UploadedAt)

		var asset models.MediaAsset
		assert.NoError(t, database.DB.Where("public_id = ?", result.PublicID).First(&asset).Error)
		assert.Equal(t, "hero", asset.PageContext)
		assert.Equal(t, editor.ID, asset.UploadedBy)
	})

	t.Run("Fail - No file", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		writer.WriteField("pageContext", "hero")
		contentType := writer.FormDataContentType()
		writer.Close()

		req := httptest.NewRequest("POST", "/api/admin/upload", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)

		var result struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		resp.Body.Close()

		assert.False(t, result.Success)
		assert.NotEmpty(t, result.Error)
	})

	t.Run("Fail - Image too large", func(t *testing.T) {
		large := bytes.Repeat([]byte("x"), 11*1024*1024)
		body, contentType := createMultipartForm("large.jpg", "image/jpeg", large, nil)

		req := httptest.NewRequest("POST", "/api/admin/upload", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Fail - No token", func(t *testing.T) {
		body, contentType := createMultipartForm("photo.jpg", "image/jpeg", []byte("content"), nil)

		req := httptest.NewRequest("POST", "/api/admin/upload", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Fail - Viewer lacks create permission", func(t *testing.T) {
		viewer := testutils.CreateTestUser(t, database.DB, "viewer@test.com", "password", "viewer")
		viewerToken := testutils.GetAuthToken(t, viewer.ID, viewer.Role.Name)

		body, contentType := createMultipartForm("photo.jpg", "image/jpeg", []byte("content"), nil)

		req := httptest.NewRequest("POST", "/api/admin/upload", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+viewerToken)

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestListMediaHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)

	editor := testutils.CreateTestUser(t, database.DB, "editor@test.com", "password", "editor")
	token := testutils.GetAuthToken(t, editor.ID, editor.Role.Name)

	seed := []models.MediaAsset{
		{PublicID: "p1", OriginalName: "a.jpg", FileName: "a.jpg", URL: "/uploads/photos/a.jpg",
			MimeType: "image/jpeg", Size: 10, PageContext: "hero", UploadedBy: editor.ID},
		{PublicID: "p2", OriginalName: "b.jpg", FileName: "b.jpg", URL: "/uploads/photos/b.jpg",
			MimeType: "image/jpeg", Size: 20, PageContext: "gallery", UploadedBy: editor.ID},
	}
	for i := range seed {
		assert.NoError(t, database.DB.Create(&seed[i]).Error)
	}

	t.Run("Lists everything without pageContext", func(t *testing.T) {
		rec, err := testutils.MakeRequest(app, "GET", "/api/admin/media", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, rec.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, rec, &result)
		assert.True(t, result.Success)

		data, ok := result.Data.([]interface{})
		assert.True(t, ok)
		assert.Len(t, data, 2)
	})

	t.Run("Filters by pageContext", func(t *testing.T) {
		rec, err := testutils.MakeRequest(app, "GET", "/api/admin/media?pageContext=hero", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, rec.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, rec, &result)
		data := result.Data.([]interface{})
		assert.Len(t, data, 1)

		first := data[0].(map[string]interface{})
		assert.Equal(t, "p1", first["id"])
	})
}

func TestGetMediaHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)

	editor := testutils.CreateTestUser(t, database.DB, "editor@test.com", "password", "editor")
	token := testutils.GetAuthToken(t, editor.ID, editor.Role.Name)

	asset := models.MediaAsset{
		PublicID: "p1", OriginalName: "a.jpg", FileName: "a.jpg",
		URL: "/uploads/photos/a.jpg", MimeType: "image/jpeg", UploadedBy: editor.ID,
	}
	assert.NoError(t, database.DB.Create(&asset).Error)

	t.Run("Found", func(t *testing.T) {
		rec, err := testutils.MakeRequest(app, "GET", "/api/admin/media/p1", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, rec.Code)
		testutils.AssertSuccess(t, rec)
	})

	t.Run("Not found", func(t *testing.T) {
		rec, err := testutils.MakeRequest(app, "GET", "/api/admin/media/missing", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 404, rec.Code)
		testutils.AssertError(t, rec, "NOT_FOUND")
	})
}

func TestDeleteMediaHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)

	editor := testutils.CreateTestUser(t, database.DB, "editor@test.com", "password", "editor")
	token := testutils.GetAuthToken(t, editor.ID, editor.Role.Name)

	asset := models.MediaAsset{
		PublicID: "doomed", OriginalName: "a.jpg", FileName: "a.jpg",
		URL: "/uploads/photos/a.jpg", MimeType: "image/jpeg", UploadedBy: editor.ID,
	}
	assert.NoError(t, database.DB.Create(&asset).Error)

	t.Run("Deletes and reports success", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/admin/media/doomed", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result struct {
			Success bool `json:"success"`
		}
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		resp.Body.Close()
		assert.True(t, result.Success)

		var count int64
		database.DB.Model(&models.MediaAsset{}).Where("public_id = ?", "doomed").Count(&count)
		assert.Zero(t, count)
	})

	t.Run("Missing asset returns 404", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/admin/media/doomed", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestBulkUploadMediaHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)

	editor := testutils.CreateTestUser(t, database.DB, "editor@test.com", "password", "editor")
	token := testutils.GetAuthToken(t, editor.ID, editor.Role.Name)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, name := range []string{"one.jpg", "two.jpg"} {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+name+`"`)
		h.Set("Content-Type", "image/jpeg")
		part, _ := writer.CreatePart(h)
		io.WriteString(part, "content")
	}
	writer.WriteField("pageContext", "gallery")
	contentType := writer.FormDataContentType()
	writer.Close()

	req := httptest.NewRequest("POST", "/api/admin/upload/bulk", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
	resp.Body.Close()

	var count int64
	database.DB.Model(&models.MediaAsset{}).Where("page_context = ?", "gallery").Count(&count)
	assert.Equal(t, int64(2), count)
}
