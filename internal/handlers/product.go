package handlers

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adamnowak/shop-api/internal/logging"
	"github.com/adamnowak/shop-api/internal/mykafka"
	"github.com/adamnowak/shop-api/internal/seo"
	"github.com/adamnowak/shop-api/internal/service"
	"github.com/adamnowak/shop-api/internal/transport"
	"github.com/adamnowak/shop-api/internal/util"
)

type ProductHandler struct {
	Svc      *service.CatalogService
	Seo      *seo.Client
	Producer *mykafka.Producer
}

func (h *ProductHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicProductEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka_publish_failed", "error", err)
	}
}

func productID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid product ID")
	}
	return uint(id), nil
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	product, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.List(c.Request().Context(), offset, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":  offset/limit + 1,
			"size":  limit,
			"total": total,
		},
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, fmt.Sprint(product.ID), map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})

	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.Patch(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, fmt.Sprint(product.ID), map[string]any{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	h.publish(c, fmt.Sprint(id), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) GetCategories(c echo.Context) error {
	categories, err := h.Svc.Categories(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, categories)
}

// Init seeds the catalog from a JSON array or a CSV body. Refused once any
// product exists.
func (h *ProductHandler) Init(c echo.Context) error {
	ctx := c.Request().Context()

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	var reqs []transport.ProductRequest

	switch {
	case strings.HasPrefix(contentType, echo.MIMEApplicationJSON):
		if err := c.Bind(&reqs); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
	case strings.HasPrefix(contentType, "text/csv"), strings.HasPrefix(contentType, "text/plain"):
		parsed, err := parseProductsCSV(c.Request().Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		reqs = parsed
	default:
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, "unsupported content type")
	}

	count, err := h.Svc.BulkImport(ctx, reqs)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "database initialized successfully",
		"imported": count,
	})
}

// GenerateSeoDescription rewrites a product description through the
// external SEO service and persists the result.
func (h *ProductHandler) GenerateSeoDescription(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := productID(c)
	if err != nil {
		return err
	}

	product, err := h.Svc.Get(ctx, id)
	if err != nil {
		return httpError(err)
	}

	description, err := h.Seo.Describe(ctx, *product)
	if err != nil {
		logging.FromContext(ctx).Error("seo_generation_failed", "product_id", id, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "description generation failed")
	}

	updated, err := h.Svc.UpdateDescription(ctx, id, description)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// parseProductsCSV expects a header row with name, description, priceUnit,
// weightUnit and category columns.
func parseProductsCSV(r io.Reader) ([]transport.ProductRequest, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("csv must contain a header row and at least one product")
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"name", "description", "priceUnit", "weightUnit", "category"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("csv is missing the %s column", required)
		}
	}

	reqs := make([]transport.ProductRequest, 0, len(records)-1)
	for _, record := range records[1:] {
		price, err := strconv.ParseFloat(strings.TrimSpace(record[col["priceUnit"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("priceUnit must be a number: %w", err)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(record[col["weightUnit"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("weightUnit must be a number: %w", err)
		}

		reqs = append(reqs, transport.ProductRequest{
			Name:        strings.TrimSpace(record[col["name"]]),
			Description: strings.TrimSpace(record[col["description"]]),
			PriceUnit:   price,
			WeightUnit:  weight,
			Category:    transport.CategoryRef{Name: strings.TrimSpace(record[col["category"]])},
		})
	}
	return reqs, nil
}
