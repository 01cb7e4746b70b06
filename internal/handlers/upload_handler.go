package handlers

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Thumbnail dikirim sebagai base64 di body JSON, bukan multipart.
const maxUploadBytes = 5 * 1024 * 1024

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type UploadHandler struct {
	UploadDir string
	BaseURL   string
}

func NewUploadHandler(uploadDir, baseURL string) *UploadHandler {
	return &UploadHandler{UploadDir: uploadDir, BaseURL: baseURL}
}

type UploadReq struct {
	FileName string `json:"file_name"`
	Data     string `json:"data"`
}

// Upload menyimpan gambar base64 ke disk dan mengembalikan URL publiknya.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	var req UploadReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Body request tidak valid",
		})
	}

	if req.Data == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "File tidak ditemukan di request",
		})
	}

	// dukung data URL ("data:image/png;base64,....") maupun base64 polos
	payload := req.Data
	if idx := strings.Index(payload, ";base64,"); idx != -1 {
		payload = payload[idx+len(";base64,"):]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Data file bukan base64 yang valid",
		})
	}

	if len(raw) > maxUploadBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Ukuran file maksimal 5MB",
		})
	}

	contentType := http.DetectContentType(raw)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Format file harus JPG, PNG, atau WebP",
		})
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal menyiapkan folder upload",
		})
	}

	// nama file dari server, nama asli hanya untuk log/debug
	fileName := fmt.Sprintf("%s%s", uuid.NewString(), ext)
	fullPath := filepath.Join(h.UploadDir, fileName)

	if err := os.WriteFile(fullPath, raw, 0o644); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal menyimpan file",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Upload berhasil",
		"data": fiber.Map{
			"file_name": fileName,
			"url":       h.BaseURL + "/uploads/" + fileName,
		},
	})
}
