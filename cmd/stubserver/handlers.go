package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/stevenpatino/storefront/catalog"
	"github.com/stevenpatino/storefront/transactions"
)

// heartbeatInterval paces the keep-alive events on open streams.
const heartbeatInterval = 5 * time.Second

// Handler serves the stub's HTTP surface.
type Handler struct {
	processor  *Processor
	repo       Repository
	hub        *hub
	categories []catalog.Category
	products   []catalog.Product
}

func NewHandler(processor *Processor, repo Repository, h *hub) *Handler {
	categories, products := seedCatalog()
	return &Handler{
		processor:  processor,
		repo:       repo,
		hub:        h,
		categories: categories,
		products:   products,
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.products)
}

func (h *Handler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.categories)
}

func (h *Handler) CategoryProducts(c *gin.Context) {
	categoryID := c.Param("id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var filtered []catalog.Product
	for _, p := range h.products {
		if p.CategoryID == categoryID {
			filtered = append(filtered, p)
		}
	}

	start := (page - 1) * limit
	if start >= len(filtered) {
		c.JSON(http.StatusOK, []catalog.Product{})
		return
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	c.JSON(http.StatusOK, filtered[start:end])
}

func (h *Handler) SearchProducts(c *gin.Context) {
	query := strings.ToLower(c.Query("q"))

	results := []catalog.Product{}
	for _, p := range h.products {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Description), query) {
			results = append(results, p)
		}
	}
	c.JSON(http.StatusOK, results)
}

// Checkout creates a PENDING transaction for one cart line item.
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.processor.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// GetTransaction returns the latest state of a transaction by id or
// reference.
func (h *Handler) GetTransaction(c *gin.Context) {
	tx, err := h.repo.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}
	c.JSON(http.StatusOK, tx)
}

// TransactionEvents streams the transaction's lifecycle as server-sent
// events: an initial snapshot, periodic heartbeats carrying the current
// status, and a status_update when the transaction settles.
func (h *Handler) TransactionEvents(c *gin.Context) {
	tx, err := h.repo.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}

	changes, unsubscribe := h.hub.subscribe(tx.ID)
	defer unsubscribe()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	writeEvent := func(ev transactions.StreamEvent) bool {
		if err := sse.Encode(c.Writer, sse.Event{Event: "message", Data: ev}); err != nil {
			return false
		}
		c.Writer.Flush()
		return true
	}

	if !writeEvent(transactions.StreamEvent{
		Type:        "initial",
		Transaction: tx,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}) {
		return
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	current := tx.Status
	for {
		select {
		case <-c.Request.Context().Done():
			return

		case change := <-changes:
			current = change.Status
			ok := writeEvent(transactions.StreamEvent{
				Type:        "status_update",
				Status:      change.Status,
				Transaction: change.Transaction,
				Timestamp:   time.Now().UTC().Format(time.RFC3339),
			})
			if !ok || change.Status.Terminal() {
				return
			}

		case <-heartbeat.C:
			ok := writeEvent(transactions.StreamEvent{
				Type:          "heartbeat",
				CurrentStatus: current,
				Timestamp:     time.Now().UTC().Format(time.RFC3339),
			})
			if !ok {
				return
			}
		}
	}
}
