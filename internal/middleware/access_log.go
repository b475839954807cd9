package middleware

import (
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
)

// AccessLog is gin's request logger with the request id appended, so a backend
// line can be matched with the gateway line that logged the same id.
// A nil out writes to gin.DefaultWriter.
func AccessLog(out io.Writer) gin.HandlerFunc {
	if out == nil {
		out = gin.DefaultWriter
	}
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: accessLogFormat,
		Output:    out,
	})
}

func accessLogFormat(param gin.LogFormatterParams) string {
	requestID, _ := param.Keys[requestIDKey].(string)
	if requestID == "" {
		requestID = "-"
	}
	return fmt.Sprintf("[GIN] %v | %3d | %13v | %15s | %-7s %#v | request %s\n%s",
		param.TimeStamp.Format(time.DateTime),
		param.StatusCode,
		param.Latency,
		param.ClientIP,
		param.Method,
		param.Path,
		requestID,
		param.ErrorMessage,
	)
}
