package api

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"rentcompare/dataset"
	"rentcompare/models"
	"rentcompare/services"
	"rentcompare/utils"
)

// annualDriftRate approximates yearly rent growth used to project stale
// averages forward. Applied only when the data is older than six months.
const (
	annualDriftRate   = 0.05
	staleMonthsCutoff = 6
)

// CompareResponse is the JSON answer to /api/compare.
type CompareResponse struct {
	Average           float64  `json:"average"`
	Delta             float64  `json:"delta"`
	Percent           float64  `json:"percent"`
	DataAge           *int     `json:"dataAge,omitempty"`
	DataAgeMention    string   `json:"dataAgeMention,omitempty"`
	AdjustedAverage   *float64 `json:"adjustedAverage,omitempty"`
	AdjustmentApplied bool     `json:"adjustmentApplied"`
	Category          string   `json:"category,omitempty"`
}

// DataResponse is the JSON answer to /api/data.
type DataResponse struct {
	Records    []models.RentalRecord    `json:"records"`
	Categories []string                 `json:"categories"`
	Cities     []string                 `json:"cities"`
	AllKnown   []models.HousingCategory `json:"housingCategories"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	logger   *utils.Logger
	acquirer *dataset.Acquirer
	lookup   *services.LookupEngine
}

// NewHandler wires a Handler over the given acquirer. The lookup engine reads
// through the acquirer so every request sees a lazily (re)populated cache.
func NewHandler(logger *utils.Logger, acquirer *dataset.Acquirer) *Handler {
	h := &Handler{logger: logger, acquirer: acquirer}
	h.lookup = services.NewLookupEngine(logger, func() []models.RentalRecord {
		return acquirer.Acquire(context.Background())
	})
	return h
}

// RegisterRoutes sets up the API routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Get("/api/compare", h.HandleCompare)
	app.Get("/api/data", h.HandleData)
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleCompare answers "how does my rent compare to the market average".
// A query with no matching data is a 404, never a 500: missing data is the
// one user-visible failure mode the pipeline has.
func (h *Handler) HandleCompare(c *fiber.Ctx) error {
	city := strings.TrimSpace(c.Query("city"))
	beds := strings.TrimSpace(c.Query("beds"))
	category := strings.TrimSpace(c.Query("category"))

	if city == "" || beds == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "city and beds are required"})
	}

	price, err := strconv.ParseFloat(c.Query("price"), 64)
	if err != nil || price <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "price must be a positive number"})
	}

	result := h.lookup.Average(city, services.NormalizeBedrooms(beds), category)
	if result.Value == nil {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{
			Error: fmt.Sprintf("no rental data for %q", city),
		})
	}

	average := *result.Value
	resp := CompareResponse{
		Average:  average,
		Delta:    price - average,
		Percent:  (price - average) / average,
		DataAge:  result.DataAgeMonths,
		Category: category,
	}

	if result.DataAgeMonths != nil && *result.DataAgeMonths > 0 {
		resp.DataAgeMention = fmt.Sprintf("Based on survey data from about %d month(s) ago.", *result.DataAgeMonths)
	}
	if result.DataAgeMonths != nil && *result.DataAgeMonths > staleMonthsCutoff {
		adjusted := average * (1 + annualDriftRate/12*float64(*result.DataAgeMonths))
		resp.AdjustedAverage = &adjusted
		resp.AdjustmentApplied = true
	}

	return c.JSON(resp)
}

// HandleData returns the filtered record set and the category choices for a
// city/bedroom pair, for populating the comparison form.
func (h *Handler) HandleData(c *fiber.Ctx) error {
	city := strings.TrimSpace(c.Query("city"))
	beds := strings.TrimSpace(c.Query("beds"))
	if beds != "" {
		beds = services.NormalizeBedrooms(beds)
	}

	records := h.acquirer.Acquire(c.Context())
	if len(records) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "no rental data available"})
	}

	filtered := make([]models.RentalRecord, 0)
	lower := strings.ToLower(city)
	for _, r := range records {
		if city != "" && !strings.Contains(strings.ToLower(r.Geography), lower) {
			continue
		}
		if beds != "" && r.Bedrooms != beds {
			continue
		}
		filtered = append(filtered, r)
	}

	return c.JSON(DataResponse{
		Records:    filtered,
		Categories: h.lookup.CategoriesFor(city, beds),
		Cities:     h.lookup.Cities(),
		AllKnown:   models.HousingCategories,
	})
}
