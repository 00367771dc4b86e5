package wardrobe

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aimd54/wardrobe-stylist/internal/service/stylist"
	wardrobesvc "github.com/aimd54/wardrobe-stylist/internal/service/wardrobe"
)

type idsRequest struct {
	IDs []uint `json:"ids"`
}

// readImage reads the "image" multipart file, bounded by the upload limit.
func (h *Handler) readImage(c *gin.Context) ([]byte, int, error) {
	header, err := c.FormFile("image")
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("image file is required")
	}
	if header.Size > h.maxUploadBytes {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("image exceeds %d bytes", h.maxUploadBytes)
	}

	f, err := header.Open()
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("failed to open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > h.maxUploadBytes {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("image exceeds %d bytes", h.maxUploadBytes)
	}
	return data, http.StatusOK, nil
}

// UploadItem stores a photographed item.
// POST /api/v1/items (multipart: image, category, sub_category, season, style).
func (h *Handler) UploadItem(c *gin.Context) {
	data, status, err := h.readImage(c)
	if err != nil {
		h.errorResponse(c, status, err.Error())
		return
	}

	owner := currentUser(c)
	result, err := h.svc.Items.Upload(c.Request.Context(), owner, wardrobesvc.UploadRequest{
		Data:        data,
		Category:    c.PostForm("category"),
		SubCategory: c.PostForm("sub_category"),
		Season:      c.PostForm("season"),
		Style:       c.PostForm("style"),
	})
	if err != nil {
		h.serviceError(c, err, "Failed to upload item")
		return
	}

	if result.Declined != nil {
		c.JSON(http.StatusOK, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ImportItem stores an item fetched from a shop page.
// POST /api/v1/items/import (multipart: image, title, source_url, category).
func (h *Handler) ImportItem(c *gin.Context) {
	data, status, err := h.readImage(c)
	if err != nil {
		h.errorResponse(c, status, err.Error())
		return
	}

	result, err := h.svc.Items.ImportItem(c.Request.Context(), currentUser(c), wardrobesvc.ImportRequest{
		Data:      data,
		Title:     c.PostForm("title"),
		SourceURL: c.PostForm("source_url"),
		Category:  c.PostForm("category"),
	})
	if err != nil {
		h.serviceError(c, err, "Failed to import item")
		return
	}

	if result.Declined != nil {
		c.JSON(http.StatusOK, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListItems returns the user's wardrobe.
// GET /api/v1/items?category=top.
func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.svc.Items.List(currentUser(c), c.Query("category"))
	if err != nil {
		h.serviceError(c, err, "Failed to list items")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// ListDirty returns the laundry basket.
// GET /api/v1/items/dirty.
func (h *Handler) ListDirty(c *gin.Context) {
	items, err := h.svc.Items.ListDirty(currentUser(c))
	if err != nil {
		h.serviceError(c, err, "Failed to list dirty items")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// MarkDirty puts items in the laundry basket.
// POST /api/v1/items/dirty {"ids": [...]}.
func (h *Handler) MarkDirty(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		h.errorResponse(c, http.StatusBadRequest, "ids are required")
		return
	}

	n, err := h.svc.Items.MarkDirty(currentUser(c), req.IDs)
	if err != nil {
		h.serviceError(c, err, "Failed to mark items dirty")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// Wash marks items clean. An empty body washes the whole basket.
// POST /api/v1/items/wash {"ids": [...]}.
func (h *Handler) Wash(c *gin.Context) {
	var req idsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.errorResponse(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	n, err := h.svc.Items.Wash(currentUser(c), req.IDs)
	if err != nil {
		h.serviceError(c, err, "Failed to wash items")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// Showcase returns the newest or least worn items.
// GET /api/v1/items/showcase/:kind (new | dusty).
func (h *Handler) Showcase(c *gin.Context) {
	kind := c.Param("kind")
	items, err := h.svc.Items.Showcase(currentUser(c), kind)
	if err != nil {
		h.serviceError(c, err, "Failed to build showcase")
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "items": items})
}

// UpdateItem retags an item.
// PATCH /api/v1/items/:id.
func (h *Handler) UpdateItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req wardrobesvc.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.svc.Items.Update(currentUser(c), id, req)
	if err != nil {
		h.serviceError(c, err, "Failed to update item")
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem removes an item and the saved outfits using it.
// DELETE /api/v1/items/:id.
func (h *Handler) DeleteItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Items.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		h.serviceError(c, err, "Failed to delete item")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetStats returns wardrobe statistics.
// GET /api/v1/stats.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.svc.Items.Stats(currentUser(c))
	if err != nil {
		h.serviceError(c, err, "Failed to compute stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Recommend suggests an outfit from clean items.
// GET /api/v1/recommend?season=summer&style=casual&occasion=office&outfit_type=dress.
func (h *Handler) Recommend(c *gin.Context) {
	rec, err := h.svc.Stylist.Recommend(c.Request.Context(), currentUser(c), stylist.RecommendRequest{
		Season:     c.Query("season"),
		Style:      c.Query("style"),
		Occasion:   c.Query("occasion"),
		OutfitType: c.Query("outfit_type"),
	})
	if err != nil {
		h.serviceError(c, err, "Failed to recommend outfit")
		return
	}
	c.JSON(http.StatusOK, rec)
}
