package handlers

import (
	"net/http"

	"ratecard-service/internal/apiutil"
	"ratecard-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

// PublicRateCardHandler serves the anonymous share-link endpoint. No identity
// headers are required; password-protected cards take the password from the
// X-RateCard-Password header so it stays out of access logs.
type PublicRateCardHandler struct {
	publicService *services.PublicRateCardService
}

func NewPublicRateCardHandler(publicService *services.PublicRateCardService) *PublicRateCardHandler {
	return &PublicRateCardHandler{
		publicService: publicService,
	}
}

func (prh *PublicRateCardHandler) Register(app *fiber.App) {
	publicGr := app.Group("ratecard/public/api/v1")
	publicGr.Get("/cards/:publicId", prh.GetPublicRateCard)
}

func (prh *PublicRateCardHandler) GetPublicRateCard(c fiber.Ctx) error {
	publicID := c.Params("publicId")
	password := c.Get("X-RateCard-Password")

	card, err := prh.publicService.GetPublicRateCard(c.Context(), publicID, password)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(card))
}
