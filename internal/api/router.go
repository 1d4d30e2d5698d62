package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// Headers que el navegador puede enviar a las funciones
var allowedHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

// RouterOptions configura el router de las funciones
type RouterOptions struct {
	Limiter        Limiter
	VerifyAttempts int
	Window         time.Duration

	// Sin proxies confiables ClientIP usa la IP de la conexión e ignora X-Forwarded-For
	TrustedProxies  []string
	TrustedPlatform string
}

// SetupRouter configura el router principal envuelto en CORS
func SetupRouter(api *API, opts RouterOptions, logger *logrus.Logger) (http.Handler, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.TrustedPlatform = opts.TrustedPlatform

	// Middleware global
	router.Use(RequestLogger(logger))
	router.Use(gin.Recovery())

	router.GET("/health", api.Health)
	router.OPTIONS("/*path", api.Preflight)

	functions := router.Group("/functions/v1")
	{
		functions.POST("/verify-customer-login-otp",
			RateLimitMiddleware(opts.Limiter, "verify-login", opts.VerifyAttempts, opts.Window, logger),
			api.VerifyCustomerLogin,
		)
		functions.POST("/generate-invoice-pdf", api.GenerateInvoicePDF)
		functions.GET("/generate-invoice-pdf", api.GenerateInvoicePDF)
	}

	return cors.New(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:     allowedHeaders,
		OptionsPassthrough: true,
	}).Handler(router), nil
}
