package handler

import (
	"go-marketplace-toko/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type KategoriHandler struct {
	kategoriRepo repository.KategoriRepository
}

func NewKategoriHandler(kategoriRepo repository.KategoriRepository) *KategoriHandler {
	return &KategoriHandler{kategoriRepo: kategoriRepo}
}

// GetKategori returns all categories
// GET /api/v1/kategori
func (h *KategoriHandler) GetKategori(c *fiber.Ctx) error {
	kategori, err := h.kategoriRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch kategori"})
	}
	return c.JSON(fiber.Map{"data": kategori})
}
