package server

import (
	"net/http"

	exchangedomain "github.com/alldenims/pricequote/internal/exchange/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *Server) GetExchangeRates(c *gin.Context) {
	rates, ok := s.exchangeSvc.Current()
	if !ok {
		AbortWithError(c, exchangedomain.ErrRatesUnavailable)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rates})
}

func (s *Server) RefreshExchangeRates(c *gin.Context) {
	rates, err := s.exchangeSvc.Refresh(c.Request.Context())
	if err != nil {
		s.log.Warn("manual exchange rate refresh failed", zap.Error(err))
		AbortWithError(c, exchangedomain.ErrRatesUnavailable)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rates})
}
