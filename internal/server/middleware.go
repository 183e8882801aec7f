package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/tradeledger/internal/config"
	obslogger "github.com/smallbiznis/tradeledger/internal/observability/logger"
)

const HeaderIdempotencyKey = "Idempotency-Key"

func corsMiddleware(cfg config.Config) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", obslogger.HeaderRequestID, HeaderIdempotencyKey}
	corsConfig.ExposeHeaders = []string{obslogger.HeaderRequestID}
	return cors.New(corsConfig)
}
