package handler

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/iliyamo/helpdesk/internal/config"
)

// UploadHandler stores ticket attachments on local disk and serves them
// back.  Filenames are prefixed with a random id so concurrent uploads of
// the same name never collide, and reads are confined to the uploads root.
type UploadHandler struct {
	Cfg config.Config
}

func NewUploadHandler(cfg config.Config) *UploadHandler { return &UploadHandler{Cfg: cfg} }

// Upload handles POST /v1/uploads (multipart field "file").  The stored
// name comes back to the client, which attaches it to a ticket.
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	if fh.Size > h.Cfg.UploadMaxBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file too large"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
	}
	defer func() { _ = src.Close() }()

	prefix, err := gonanoid.New(10)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	// Keep only the base name of whatever the client sent.
	name := prefix + "_" + filepath.Base(filepath.Clean(fh.Filename))

	if err := os.MkdirAll(h.Cfg.UploadDir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}
	dst, err := os.Create(filepath.Join(h.Cfg.UploadDir, name))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}
	defer func() { _ = dst.Close() }()
	if _, err := io.Copy(dst, src); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"filename": name})
}

// Serve handles GET /v1/uploads/:filename.  The resolved path must stay
// inside the uploads root; anything else is reported as not found so
// probing reveals nothing about the filesystem.
func (h *UploadHandler) Serve(c echo.Context) error {
	path, err := safeUploadPath(h.Cfg.UploadDir, c.Param("filename"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	if _, err := os.Stat(path); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.File(path)
}

var errOutsideRoot = errors.New("path escapes uploads root")

// safeUploadPath joins name onto root and rejects any result that resolves
// outside the root (path traversal via "..", absolute names, separators).
func safeUploadPath(root, name string) (string, error) {
	if name == "" || strings.ContainsAny(name, "/\\") {
		return "", errOutsideRoot
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	full := filepath.Join(rootAbs, filepath.Clean(name))
	if full != rootAbs && !strings.HasPrefix(full, rootAbs+string(filepath.Separator)) {
		return "", errOutsideRoot
	}
	return full, nil
}
