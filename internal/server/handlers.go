package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Kris2339/MEO-PayDay/internal/batch"
	"github.com/Kris2339/MEO-PayDay/internal/logging"
	"github.com/Kris2339/MEO-PayDay/internal/market"
	"github.com/Kris2339/MEO-PayDay/internal/parsererror"
	"github.com/Kris2339/MEO-PayDay/internal/report"
	"github.com/Kris2339/MEO-PayDay/internal/spreadsheet"
	"github.com/Kris2339/MEO-PayDay/internal/store"
	"github.com/gin-gonic/gin"
)

const (
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	marketExportFile = "market_products.xlsx"
)

// Handler serves the API routes.
type Handler struct {
	market    *market.Manager
	processor *batch.Processor
	sheet     string
	logger    logging.Logger
}

// NewHandler creates a Handler. sheet names the result worksheet.
func NewHandler(m *market.Manager, p *batch.Processor, sheet string, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Handler{market: m, processor: p, sheet: sheet, logger: logger}
}

// RegisterRoutes mounts the API under group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	products := api.Group("/market-products")
	products.GET("", h.ListProducts)
	products.POST("", h.AddProducts)
	products.DELETE("", h.ClearProducts)
	products.DELETE("/:index", h.RemoveProduct)
	products.POST("/refresh", h.RefreshProducts)
	products.GET("/export", h.ExportProducts)

	api.POST("/classify", h.Classify)
	api.POST("/classify/summary", h.ClassifySummary)
}

type addProductsRequest struct {
	Text  string   `json:"text"`
	Items []string `json:"items"`
}

// ListProducts returns the session market list.
// GET /api/market-products
func (h *Handler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.listBody())
}

// AddProducts appends names from pasted text and/or an item list.
// POST /api/market-products
func (h *Handler) AddProducts(c *gin.Context) {
	var req addProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	names := append(market.SplitLines(req.Text), req.Items...)
	added, err := h.market.Add(c.Request.Context(), names...)
	if err != nil {
		h.persistenceFailure(c, err)
		return
	}
	if added == nil {
		added = []string{}
	}
	body := h.listBody()
	body["added"] = added
	c.JSON(http.StatusOK, body)
}

// RemoveProduct deletes one name by position.
// DELETE /api/market-products/:index
func (h *Handler) RemoveProduct(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}
	removed, err := h.market.Remove(c.Request.Context(), index)
	if errors.Is(err, market.ErrIndexOutOfRange) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.persistenceFailure(c, err)
		return
	}
	body := h.listBody()
	body["removed"] = removed
	c.JSON(http.StatusOK, body)
}

// ClearProducts empties the list.
// DELETE /api/market-products
func (h *Handler) ClearProducts(c *gin.Context) {
	if err := h.market.Clear(c.Request.Context()); err != nil {
		h.persistenceFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, h.listBody())
}

// RefreshProducts reloads the list from the store.
// POST /api/market-products/refresh
func (h *Handler) RefreshProducts(c *gin.Context) {
	if err := h.market.Refresh(c.Request.Context()); err != nil {
		h.persistenceFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, h.listBody())
}

// ExportProducts downloads the list as a workbook.
// GET /api/market-products/export
func (h *Handler) ExportProducts(c *gin.Context) {
	var buf bytes.Buffer
	if err := spreadsheet.WriteMarketList(&buf, h.market.Items()); err != nil {
		h.logger.WithError(err).Error("Failed to export market products")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build workbook"})
		return
	}
	attachment(c, marketExportFile, buf.Bytes())
}

// Classify runs the uploaded files and returns the result workbook.
// POST /api/classify
func (h *Handler) Classify(c *gin.Context) {
	res, ok := h.run(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := spreadsheet.WriteResult(&buf, h.sheet, res.Records()); err != nil {
		h.logger.WithError(err).Error("Failed to write result workbook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build workbook"})
		return
	}
	c.Header("X-Run-ID", res.RunID)
	c.Header("X-File-Errors", strconv.Itoa(len(res.FileErrors)))
	attachment(c, spreadsheet.DefaultResultFile, buf.Bytes())
}

// ClassifySummary runs the uploaded files and returns only the summary.
// POST /api/classify/summary
func (h *Handler) ClassifySummary(c *gin.Context) {
	res, ok := h.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report.RunReport{
		RunID:      res.RunID,
		Files:      res.Files,
		Summary:    res.Summary(),
		FileErrors: res.ErrorMessages(),
	})
}

func (h *Handler) run(c *gin.Context) (*batch.Result, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return nil, false
	}

	inputs := make([]batch.Input, 0, len(form.File["files"]))
	for _, fh := range form.File["files"] {
		data, err := readUpload(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to read upload %s", fh.Filename)})
			return nil, false
		}
		inputs = append(inputs, batch.Input{Name: fh.Filename, Data: data})
	}

	res, err := h.processor.Process(c.Request.Context(), inputs, h.market.Products())
	if err != nil {
		body := gin.H{"error": err.Error()}
		if res != nil {
			body["file_errors"] = res.ErrorMessages()
		}
		status := http.StatusInternalServerError
		if batch.IsFatal(err) {
			status = http.StatusUnprocessableEntity
			if errors.Is(err, parsererror.ErrNoInputFiles) {
				status = http.StatusBadRequest
			}
		}
		c.JSON(status, body)
		return nil, false
	}
	return res, true
}

func (h *Handler) listBody() gin.H {
	items := h.market.Items()
	return gin.H{
		"items":    items,
		"count":    len(items),
		"revision": h.market.Revision(),
	}
}

// persistenceFailure reports a store error. The session list already holds the change.
func (h *Handler) persistenceFailure(c *gin.Context, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, store.ErrRevisionConflict):
		status = http.StatusConflict
	case errors.Is(err, store.ErrStoreNotConfigured):
		status = http.StatusServiceUnavailable
	}
	body := h.listBody()
	body["error"] = err.Error()
	c.JSON(status, body)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

func attachment(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
