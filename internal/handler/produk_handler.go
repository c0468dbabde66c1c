package handler

import (
	"errors"

	"go-marketplace-toko/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProdukHandler struct {
	service service.ProdukService
}

func NewProdukHandler(s service.ProdukService) *ProdukHandler {
	return &ProdukHandler{service: s}
}

// GetProduk lists the caller's products
// GET /api/v1/member/produk
func (h *ProdukHandler) GetProduk(c *fiber.Ctx) error {
	produk, err := h.service.ListProduk(getCaller(c))
	if err != nil {
		return respondError(c, "ListProduk", err, "Gagal memuat produk.")
	}
	return c.JSON(fiber.Map{"data": produk})
}

// GetForm returns kategori and toko for the create screen
// GET /api/v1/member/produk/form
func (h *ProdukHandler) GetForm(c *fiber.Ctx) error {
	form, err := h.service.PrepareCreate(getCaller(c))
	if err != nil {
		return respondError(c, "PrepareCreate", err, "Gagal memuat form produk.")
	}
	return c.JSON(fiber.Map{"data": form})
}

// GetOne returns a single product for editing
// GET /api/v1/member/produk/:ref
func (h *ProdukHandler) GetOne(c *fiber.Ctx) error {
	produk, err := h.service.GetProduk(getCaller(c), c.Params("ref"))
	if err != nil {
		return respondError(c, "GetProduk", err, "Gagal memuat produk.")
	}
	return c.JSON(fiber.Map{"data": produk})
}

// CreateProduk accepts multipart form fields plus gambar_produk[] files
// POST /api/v1/member/produk
func (h *ProdukHandler) CreateProduk(c *fiber.Ctx) error {
	var req service.ProdukRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid form"})
	}

	images, err := readUploads(c, service.GambarField)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Gagal membaca file gambar."})
	}

	produk, err := h.service.CreateProduk(getCaller(c), &req, images)
	if err != nil {
		return respondError(c, "CreateProduk", err, "Gagal menambahkan produk.")
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Produk berhasil ditambahkan.",
		"data":    produk,
	})
}

// UpdateProduk also takes deleted_gambar ids of images to drop
// PUT /api/v1/member/produk/:ref
func (h *ProdukHandler) UpdateProduk(c *fiber.Ctx) error {
	var req service.ProdukRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid form"})
	}

	images, err := readUploads(c, service.GambarField)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Gagal membaca file gambar."})
	}

	produk, err := h.service.UpdateProduk(getCaller(c), c.Params("ref"), &req, images, formIDs(c, "deleted_gambar"))
	if err != nil {
		return respondError(c, "UpdateProduk", err, "Gagal memperbarui produk.")
	}

	return c.JSON(fiber.Map{
		"message": "Produk berhasil diperbarui.",
		"data":    produk,
	})
}

// DeleteProduk
// DELETE /api/v1/member/produk/:ref
func (h *ProdukHandler) DeleteProduk(c *fiber.Ctx) error {
	err := h.service.DeleteProduk(getCaller(c), c.Params("ref"))
	if errors.Is(err, service.ErrAccessDenied) {
		return c.Status(403).JSON(fiber.Map{"error": "Anda tidak memiliki akses untuk menghapus produk ini."})
	}
	if err != nil {
		return respondError(c, "DeleteProduk", err, "Gagal menghapus produk.")
	}
	return c.JSON(fiber.Map{"message": "Produk berhasil dihapus."})
}
