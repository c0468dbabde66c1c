package handler

import (
	"fmt"

	"go-marketplace-toko/internal/service"

	"github.com/gofiber/fiber/v2"
)

// TokoHandler serves the admin store screens.
type TokoHandler struct {
	service service.TokoService
}

func NewTokoHandler(s service.TokoService) *TokoHandler {
	return &TokoHandler{service: s}
}

// GET /api/v1/admin/toko
func (h *TokoHandler) GetAll(c *fiber.Ctx) error {
	toko, err := h.service.ListToko(getCaller(c))
	if err != nil {
		return respondError(c, "ListToko", err, "Gagal memuat toko.")
	}
	return c.JSON(fiber.Map{"data": toko})
}

// GET /api/v1/admin/toko/:ref
func (h *TokoHandler) GetOne(c *fiber.Ctx) error {
	toko, err := h.service.GetToko(getCaller(c), c.Params("ref"))
	if err != nil {
		return respondError(c, "GetToko", err, "Gagal memuat toko.")
	}
	return c.JSON(fiber.Map{"data": toko})
}

// POST /api/v1/admin/toko
func (h *TokoHandler) Create(c *fiber.Ctx) error {
	var req service.TokoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid form"})
	}

	cover, err := readUpload(c, "gambar")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Gagal membaca file gambar."})
	}

	toko, err := h.service.CreateToko(getCaller(c), &req, cover)
	if err != nil {
		return respondError(c, "CreateToko", err, "Terjadi kesalahan saat menyimpan toko.")
	}
	return c.Status(201).JSON(fiber.Map{"message": "Toko berhasil ditambahkan!", "data": toko})
}

// PUT /api/v1/admin/toko/:ref
func (h *TokoHandler) Update(c *fiber.Ctx) error {
	var req service.TokoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid form"})
	}

	cover, err := readUpload(c, "gambar")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Gagal membaca file gambar."})
	}

	toko, err := h.service.UpdateToko(getCaller(c), c.Params("ref"), &req, cover)
	if err != nil {
		return respondError(c, "UpdateToko", err, "Terjadi kesalahan saat memperbarui toko.")
	}
	return c.JSON(fiber.Map{"message": "Toko berhasil diperbarui!", "data": toko})
}

// DELETE /api/v1/admin/toko/:ref
func (h *TokoHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteToko(getCaller(c), c.Params("ref")); err != nil {
		return respondError(c, "DeleteToko", err, "Terjadi kesalahan saat menghapus toko.")
	}
	return c.JSON(fiber.Map{"message": "Toko berhasil dihapus!"})
}

// Export streams every store as CSV
// GET /api/v1/admin/toko/export
func (h *TokoHandler) Export(c *fiber.Ctx) error {
	export, err := h.service.ExportCSV(getCaller(c))
	if err != nil {
		return respondError(c, "ExportCSV", err, "Gagal mengekspor data toko.")
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, export.FileName))
	return c.Send(export.Data)
}
