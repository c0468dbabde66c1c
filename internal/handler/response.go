package handler

import (
	"errors"
	"io"
	"log"
	"strconv"
	"strings"

	"go-marketplace-toko/internal/model"
	"go-marketplace-toko/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	msgNoToko       = "Anda belum memiliki toko. Silahkan buat toko terlebih dahulu."
	msgNotFound     = "Data tidak ditemukan."
	msgAccessDenied = "Anda tidak memiliki akses."
	msgInvalid      = "Data yang dikirim tidak valid."
)

// getCaller reads the identity RequireAuth stored in Locals.
func getCaller(c *fiber.Ctx) service.Caller {
	id, _ := c.Locals("user_id").(uint)
	name, _ := c.Locals("user_name").(string)
	role, _ := c.Locals("user_role").(string)
	return service.Caller{UserID: id, Name: name, Role: model.Role(role)}
}

// respondError maps service errors to status codes. Anything unexpected is
// logged with op and answered with failMsg.
func respondError(c *fiber.Ctx, op string, err error, failMsg string) error {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": msgInvalid, "fields": vErr.Fields})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msgNotFound})
	case errors.Is(err, service.ErrAccessDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": msgAccessDenied})
	case errors.Is(err, service.ErrNoToko):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": msgNoToko})
	}

	log.Printf("%s: %v", op, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": failMsg})
}

// readUploads returns the files sent under field (or field[]). A request
// without a multipart body has no files.
func readUploads(c *fiber.Ctx, field string) ([]service.ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}

	files := append(form.File[field], form.File[field+"[]"]...)
	uploads := make([]service.ImageUpload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, service.ImageUpload{Filename: fh.Filename, Data: data})
	}
	return uploads, nil
}

// readUpload returns the first file under field, or nil.
func readUpload(c *fiber.Ctx, field string) (*service.ImageUpload, error) {
	uploads, err := readUploads(c, field)
	if err != nil || len(uploads) == 0 {
		return nil, err
	}
	return &uploads[0], nil
}

// formIDs collects numeric ids from repeated or comma separated values.
// Unparseable entries are skipped.
func formIDs(c *fiber.Ctx, field string) []uint {
	var raw []string
	if form, err := c.MultipartForm(); err == nil {
		raw = append(form.Value[field], form.Value[field+"[]"]...)
	} else if v := c.FormValue(field); v != "" {
		raw = []string{v}
	}

	var ids []uint
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
			if err == nil && id > 0 {
				ids = append(ids, uint(id))
			}
		}
	}
	return ids
}
