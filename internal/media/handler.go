package media

import (
	"net/url"
	"strings"
	"time"

	"github.com/craftfolio/cms/internal/cache"
	"github.com/craftfolio/cms/internal/database"
	"github.com/craftfolio/cms/internal/models"
	"github.com/craftfolio/cms/internal/response"
	"github.com/craftfolio/cms/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	maxImageSize = int64(10 * 1024 * 1024)
	maxVideoSize = int64(100 * 1024 * 1024)
)

var listCache *cache.Catalog

// UseCache installs the optional redis listing cache. A nil cache is valid
// and disables caching.
func UseCache(c *cache.Catalog) {
	listCache = c
}

// UploadMediaHandler accepts one multipart file plus an optional
// pageContext tag. The response shape is the upload contract the admin
// widgets parse: top-level success and url fields.
func UploadMediaHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "File is required",
		})
	}

	maxSize := maxImageSize
	if strings.HasPrefix(file.Header.Get("Content-Type"), "video/") {
		maxSize = maxVideoSize
	}
	if file.Size > maxSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "File too large",
		})
	}

	pageContext := c.FormValue("pageContext", "")

	fileURL, err := storage.Save(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to store file: " + err.Error(),
		})
	}

	asset := models.MediaAsset{
		PublicID:     uuid.New().String(),
		FileName:     storedName(fileURL),
		OriginalName: file.Filename,
		URL:          fileURL,
		MimeType:     file.Header.Get("Content-Type"),
		Size:         file.Size,
		PageContext:  pageContext,
		UploadedBy:   userID,
	}

	if err := database.DB.Create(&asset).Error; err != nil {
		storage.Remove(fileURL)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to save media metadata",
		})
	}

	listCache.Invalidate(c.Context(), pageContext)

	return c.JSON(fiber.Map{
		"success":      true,
		"url":          asset.URL,
		"fileName":     asset.FileName,
		"originalName": asset.OriginalName,
		"size":         asset.Size,
		"type":         asset.MimeType,
		"uploadedAt":   asset.UploadedAt.Format(time.RFC3339),
		"publicId":     asset.PublicID,
	})
}

// BulkUploadMediaHandler uploads a batch, collecting per-file errors so one
// bad file never fails the rest.
func BulkUploadMediaHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	pageContext := c.FormValue("pageContext", "")

	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "Invalid form data", err.Error())
	}

	files := form.File["files"]
	if len(files) == 0 {
		return response.BadRequest(c, "No files provided", nil)
	}

	uploaded := []models.MediaAsset{}
	errors := []map[string]string{}

	for _, file := range files {
		maxSize := maxImageSize
		if strings.HasPrefix(file.Header.Get("Content-Type"), "video/") {
			maxSize = maxVideoSize
		}
		if file.Size > maxSize {
			errors = append(errors, map[string]string{
				"filename": file.Filename,
				"error":    "file too large",
			})
			continue
		}

		fileURL, err := storage.Save(file)
		if err != nil {
			errors = append(errors, map[string]string{
				"filename": file.Filename,
				"error":    err.Error(),
			})
			continue
		}

		asset := models.MediaAsset{
			PublicID:     uuid.New().String(),
			FileName:     storedName(fileURL),
			OriginalName: file.Filename,
			URL:          fileURL,
			MimeType:     file.Header.Get("Content-Type"),
			Size:         file.Size,
			PageContext:  pageContext,
			UploadedBy:   userID,
		}

		if err := database.DB.Create(&asset).Error; err != nil {
			errors = append(errors, map[string]string{
				"filename": file.Filename,
				"error":    "failed to save metadata",
			})
			continue
		}

		uploaded = append(uploaded, asset)
	}

	listCache.Invalidate(c.Context(), pageContext)

	result := fiber.Map{
		"uploaded": len(uploaded),
		"failed":   len(errors),
		"files":    uploaded,
	}
	if len(errors) > 0 {
		result["errors"] = errors
	}

	return response.Created(c, result, "Bulk upload completed")
}

// ListMediaHandler returns the full catalog for an optional pageContext,
// newest first. Filtering, search and sort happen client-side on this list.
func ListMediaHandler(c *fiber.Ctx) error {
	pageContext := c.Query("pageContext", "")

	if assets, err := listCache.GetList(c.Context(), pageContext); err == nil && assets != nil {
		return response.Success(c, assets, "Media files retrieved successfully")
	}

	var assets []models.MediaAsset
	query := database.DB.Model(&models.MediaAsset{})
	if pageContext != "" {
		query = query.Where("page_context = ?", pageContext)
	}
	if err := query.Order("uploaded_at DESC").Find(&assets).Error; err != nil {
		return response.InternalError(c, "Failed to fetch media files")
	}

	listCache.SetList(c.Context(), pageContext, assets)

	return response.Success(c, assets, "Media files retrieved successfully")
}

// GetMediaHandler returns one asset by its public id.
func GetMediaHandler(c *fiber.Ctx) error {
	id, err := url.PathUnescape(c.Params("id"))
	if err != nil || id == "" {
		return response.BadRequest(c, "Invalid media ID", nil)
	}

	var asset models.MediaAsset
	if err := database.DB.Preload("Uploader").Where("public_id = ?", id).First(&asset).Error; err != nil {
		return response.NotFound(c, "Media")
	}

	return response.Success(c, asset, "Media retrieved successfully")
}

// DeleteMediaHandler removes an asset. The storage delete is best-effort;
// the metadata row is authoritative.
func DeleteMediaHandler(c *fiber.Ctx) error {
	id, err := url.PathUnescape(c.Params("id"))
	if err != nil || id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid media ID",
		})
	}

	var asset models.MediaAsset
	if err := database.DB.Where("public_id = ?", id).First(&asset).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Media not found",
		})
	}

	if err := storage.Remove(asset.URL); err != nil {
		c.Append("X-Warning", "File deleted from database but may still exist in storage")
	}

	if err := database.DB.Delete(&asset).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to delete media",
		})
	}

	listCache.Invalidate(c.Context(), asset.PageContext)

	return c.JSON(fiber.Map{"success": true})
}

// GetMediaStatsHandler reports library-wide counts for the dashboard.
func GetMediaStatsHandler(c *fiber.Ctx) error {
	var stats struct {
		TotalFiles    int64            `json:"total_files"`
		TotalSize     int64            `json:"total_size_bytes"`
		ByType        map[string]int64 `json:"by_type"`
		RecentUploads int64            `json:"recent_uploads_24h"`
		StorageMode   string           `json:"storage_mode"`
	}

	database.DB.Model(&models.MediaAsset{}).Count(&stats.TotalFiles)

	database.DB.Model(&models.MediaAsset{}).
		Select("COALESCE(SUM(size), 0)").
		Row().Scan(&stats.TotalSize)

	stats.ByType = make(map[string]int64)

	var assets []models.MediaAsset
	database.DB.Model(&models.MediaAsset{}).Select("mime_type").Find(&assets)
	for _, a := range assets {
		class := strings.Split(a.MimeType, "/")[0]
		stats.ByType[class]++
	}

	database.DB.Model(&models.MediaAsset{}).
		Where("uploaded_at > ?", time.Now().Add(-24*time.Hour)).
		Count(&stats.RecentUploads)

	stats.StorageMode = storage.Mode()

	return response.Success(c, stats, "Media statistics retrieved successfully")
}

// storedName extracts the stored filename from a public URL.
func storedName(fileURL string) string {
	if i := strings.LastIndex(fileURL, "/"); i >= 0 {
		return fileURL[i+1:]
	}
	return fileURL
}
