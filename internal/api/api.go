package api

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hypernova-labs/agency-functions/internal/models"
	"github.com/hypernova-labs/agency-functions/internal/services"
	"github.com/sirupsen/logrus"
)

const (
	serviceName    = "agency-functions"
	serviceVersion = "1.0.0"
)

// LoginVerifier verifica enlaces mágicos
type LoginVerifier interface {
	Verify(ctx context.Context, in services.VerifyLoginInput) (*services.VerifyLoginResult, error)
}

// InvoicePDFGenerator genera y publica el PDF de una factura
type InvoicePDFGenerator interface {
	Generate(ctx context.Context, in services.GenerateInvoicePDFInput) (*services.GenerateInvoicePDFResult, error)
}

// HealthChecker es una dependencia reportada en /health
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// API maneja todos los endpoints de las funciones
type API struct {
	auth     LoginVerifier
	invoices InvoicePDFGenerator
	checks   map[string]HealthChecker
	logger   *logrus.Logger
}

// NewAPI crea una nueva instancia de la API
func NewAPI(auth LoginVerifier, invoices InvoicePDFGenerator, logger *logrus.Logger) *API {
	return &API{
		auth:     auth,
		invoices: invoices,
		checks:   make(map[string]HealthChecker),
		logger:   logger,
	}
}

// AddHealthCheck registra una dependencia para /health
func (api *API) AddHealthCheck(name string, checker HealthChecker) {
	api.checks[name] = checker
}

// VerifyCustomerLogin consume un enlace mágico y emite la sesión del cliente
func (api *API) VerifyCustomerLogin(c *gin.Context) {
	var req models.VerifyLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		api.logger.WithError(err).Warn("Error binding verify login request")
		c.JSON(http.StatusBadRequest, models.NewErrorResponse(models.ErrorCodeMissingInput, "Invalid request body"))
		return
	}

	result, err := api.auth.Verify(c.Request.Context(), services.VerifyLoginInput{
		Token:     req.Token,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		api.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.VerifyLoginResponse{
		Success: true,
		Session: models.SessionInfo{
			Token:     result.SessionToken,
			ExpiresAt: result.ExpiresAt,
		},
		Customer: result.Customer.Profile(),
	})
}

// GenerateInvoicePDF genera el PDF de una factura. POST responde con un acuse
// JSON; GET descarga el PDF.
func (api *API) GenerateInvoicePDF(c *gin.Context) {
	var req models.GenerateInvoicePDFRequest
	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			api.logger.WithError(err).Warn("Error binding generate invoice PDF request")
			c.JSON(http.StatusBadRequest, models.NewErrorResponse(models.ErrorCodeMissingInput, "Invalid request body"))
			return
		}
	}

	in := services.GenerateInvoicePDFInput{
		InvoiceID: firstNonEmpty(req.InvoiceID, c.Query("invoice_id")),
		OrderID:   firstNonEmpty(req.OrderID, c.Query("order_id")),
		SendEmail: req.SendEmail,
	}

	result, err := api.invoices.Generate(c.Request.Context(), in)
	if err != nil {
		api.writeError(c, err)
		return
	}

	if c.Request.Method == http.MethodGet {
		c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.FileName}))
		c.Data(http.StatusOK, services.ContentTypePDF, result.PDF)
		return
	}

	c.JSON(http.StatusOK, models.GenerateInvoicePDFResponse{
		Success:        true,
		InvoiceID:      result.Invoice.ID,
		InvoiceNumber:  result.Invoice.InvoiceNumber,
		PDFStoragePath: result.StoragePath,
	})
}

// Health reporta el estado del servicio y de sus dependencias
func (api *API) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	names := make([]string, 0, len(api.checks))
	for name := range api.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "ok"
	checks := gin.H{}
	for _, name := range names {
		if err := api.checks[name].HealthCheck(ctx); err != nil {
			api.logger.WithError(err).WithField("check", name).Warn("Health check failed")
			checks[name] = false
			status = "degraded"
			continue
		}
		checks[name] = true
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"service":   serviceName,
		"version":   serviceVersion,
		"checks":    checks,
	})
}

// Preflight responde las peticiones OPTIONS después de que CORS agregó sus headers
func (api *API) Preflight(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func firstNonEmpty(body *string, query string) string {
	if body != nil && *body != "" {
		return *body
	}
	return query
}
