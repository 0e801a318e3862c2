package logger

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// New builds the process-wide logger: JSON output in release mode,
// console output otherwise.
func New() *zap.Logger {
	if gin.Mode() == gin.ReleaseMode {
		return zap.Must(zap.NewProduction())
	}
	return zap.Must(zap.NewDevelopment())
}
