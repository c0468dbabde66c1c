package handler

import (
	"errors"

	"go-marketplace-toko/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TokoSayaHandler struct {
	service service.TokoSayaService
}

func NewTokoSayaHandler(s service.TokoSayaService) *TokoSayaHandler {
	return &TokoSayaHandler{service: s}
}

// Get returns the caller's store, data is null when there is none
// GET /api/v1/member/toko
func (h *TokoSayaHandler) Get(c *fiber.Ctx) error {
	toko, err := h.service.MyToko(getCaller(c))
	if err != nil {
		return respondError(c, "MyToko", err, "Gagal memuat toko.")
	}
	return c.JSON(fiber.Map{"data": toko})
}

// DELETE /api/v1/member/toko/:ref
func (h *TokoSayaHandler) Delete(c *fiber.Ctx) error {
	err := h.service.DeleteMyToko(getCaller(c), c.Params("ref"))
	if errors.Is(err, service.ErrAccessDenied) {
		return c.Status(403).JSON(fiber.Map{"error": "Anda tidak memiliki akses untuk menghapus toko ini."})
	}
	if err != nil {
		return respondError(c, "DeleteMyToko", err, "Gagal menghapus toko.")
	}
	return c.JSON(fiber.Map{"message": "Toko berhasil dihapus."})
}
