package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"ratecard-service/internal/apiutil"
	"ratecard-service/internal/models"
	"ratecard-service/internal/services"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// RateCardHandler serves the authenticated owner API. The gateway injects the
// caller identity and subscription tier as headers; a card owned by someone
// else reads as not found.
type RateCardHandler struct {
	rateCardService *services.RateCardService
}

func NewRateCardHandler(rateCardService *services.RateCardService) *RateCardHandler {
	return &RateCardHandler{
		rateCardService: rateCardService,
	}
}

func (rch *RateCardHandler) Register(app *fiber.App) {
	protectedGr := app.Group("ratecard/protected/api/v1")

	cardGroup := protectedGr.Group("/rate-cards")
	cardGroup.Post("/", rch.CreateRateCard)
	cardGroup.Get("/", rch.ListRateCards)
	cardGroup.Get("/:id", rch.GetRateCard)
	cardGroup.Put("/:id/metrics", rch.UpdateMetrics)
	cardGroup.Put("/:id/rates", rch.UpdateRates)
	cardGroup.Post("/:id/packages", rch.CreatePackage)
	cardGroup.Put("/:id/packages/:name", rch.UpdatePackage)
	cardGroup.Delete("/:id/packages/:name", rch.DeletePackage)
	cardGroup.Put("/:id/terms", rch.UpdateTerms)
	cardGroup.Post("/:id/publish", rch.Publish)
	cardGroup.Post("/:id/archive", rch.Archive)
	cardGroup.Get("/:id/history", rch.GetHistory)
	cardGroup.Post("/:id/history/:historyId/restore", rch.Restore)
}

func (rch *RateCardHandler) CreateRateCard(c fiber.Ctx) error {
	userID := c.Get("X-User-ID")
	if userID == "" {
		return c.Status(http.StatusUnauthorized).JSON(apiutil.CreateErrorResponse("UNAUTHORIZED", "Missing user identity"))
	}
	tier := models.SubscriptionTier(c.Get("X-Subscription-Tier"))

	var req models.CreateRateCardRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(apiutil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	card, err := rch.rateCardService.CreateRateCard(c.Context(), userID, tier, req)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(apiutil.CreateSuccessResponse(card))
}

func (rch *RateCardHandler) ListRateCards(c fiber.Ctx) error {
	userID := c.Get("X-User-ID")
	if userID == "" {
		return c.Status(http.StatusUnauthorized).JSON(apiutil.CreateErrorResponse("UNAUTHORIZED", "Missing user identity"))
	}

	cards, err := rch.rateCardService.ListRateCards(c.Context(), userID, c.Query("status"))
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(cards))
}

func (rch *RateCardHandler) GetRateCard(c fiber.Ctx) error {
	card, err := rch.ownedCard(c)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(card))
}

func (rch *RateCardHandler) UpdateMetrics(c fiber.Ctx) error {
	card, err := rch.ownedCard(c)
	if err != nil {
		return writeServiceError(c, err)
	}

	var req models.UpdateMetricsRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(apiutil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	updated, err := rch.rateCardService.UpdateMetrics(c.Context(), card.ID, req)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(updated))
}

func (rch *RateCardHandler) UpdateRates(c fiber.Ctx) error {
	card, err := rch.ownedCard(c)
	if err != nil {
		return writeServiceError(c, err)
	}

	var req models.UpdateRatesRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(apiutil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	updated, err := rch.rateCardService.UpdateRates(c.Context(), card.ID, req)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(updated))
}

func (rch *RateCardHandler) CreatePackage(c fiber.Ctx) error {
	card, err := rch.ownedCard(c)
	if err != nil {
		return writeServiceError(c, err)
	}

	var req models.CreatePackageRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(apiutil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	updated, err := rch.rateCardService.CreatePackage(c.Context(), card.ID, req)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(apiutil.CreateSuccessResponse(updated))
}

func (rch *RateCardHandler) UpdatePackage(c fiber.Ctx) error {
	card, err := rch.ownedCard(c)
	if err != nil {
		return writeServiceError(c, err)
	}

	var req models.UpdatePackageRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(apiutil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	updated, err := rch.rateCardService.UpdatePackage(c.Context(), card.ID, c.Params("name"), req)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(updated))
}

func (rch *RateCardHandler) DeletePackage(c fiber.Ctx) error {
	card, err := rch.ownedCard(c)
	if err != nil {
		return writeServiceError(c, err)
	}

	updated, err := rch.rateCardService.DeletePackage(c.Context(), card.ID, c.Params("name"))
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(updated))
}

func (rch *RateCardHandler) UpdateTerms(c fiber.Ctx) error {
	card, err := rch.ownedCard(c)
	if err != nil {
		return writeServiceError(c, err)
	}

	var req models.UpdateTermsRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(apiutil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	updated, err := rch.rateCardService.UpdateTerms(c.Context(), card.ID, req)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(updated))
}

func (rch *RateCardHandler) Publish(c fiber.Ctx) error {
	card, err := rch.ownedCard(c)
	if err != nil {
		return writeServiceError(c, err)
	}

	var req models.PublishRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(apiutil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	updated, err := rch.rateCardService.Publish(c.Context(), card.ID, req)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(updated))
}

func (rch *RateCardHandler) Archive(c fiber.Ctx) error {
	card, err := rch.ownedCard(c)
	if err != nil {
		return writeServiceError(c, err)
	}

	updated, err := rch.rateCardService.Archive(c.Context(), card.ID)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(updated))
}

func (rch *RateCardHandler) GetHistory(c fiber.Ctx) error {
	card, err := rch.ownedCard(c)
	if err != nil {
		return writeServiceError(c, err)
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))

	history, err := rch.rateCardService.GetHistory(c.Context(), card.ID, page)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(history))
}

func (rch *RateCardHandler) Restore(c fiber.Ctx) error {
	card, err := rch.ownedCard(c)
	if err != nil {
		return writeServiceError(c, err)
	}

	historyID, err := uuid.Parse(c.Params("historyId"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(apiutil.CreateErrorResponse("INVALID_ID", "Invalid UUID format"))
	}

	updated, err := rch.rateCardService.Restore(c.Context(), card.ID, historyID)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(apiutil.CreateSuccessResponse(updated))
}

// ownedCard resolves the :id param to a card owned by the calling user. A
// mismatch reads as not found so card ids leak nothing across accounts.
func (rch *RateCardHandler) ownedCard(c fiber.Ctx) (*models.RateCard, error) {
	userID := c.Get("X-User-ID")
	if userID == "" {
		return nil, fmt.Errorf("missing user identity: %w", models.ErrUnauthorized)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, models.NewValidationError("id", c.Params("id"), "invalid UUID format")
	}

	card, err := rch.rateCardService.GetRateCard(c.Context(), id)
	if err != nil {
		return nil, err
	}
	if card.OwnerID != userID {
		return nil, fmt.Errorf("rate card %s: %w", id, models.ErrNotFound)
	}
	return card, nil
}
