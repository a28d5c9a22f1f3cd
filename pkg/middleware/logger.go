// Package middleware holds corpmatch's echo middleware: request logging
// and the central HTTP error handler.
package middleware

import (
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/corpmatch/internal/reqcontext"
)

// Logger returns an echo middleware that logs one structured line per
// request, tagging it with a request ID (reusing an inbound X-Request-Id
// header if present).
func Logger(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.New().String()
			}
			ctx := reqcontext.SetRequestID(req.Context(), id)
			c.SetRequest(req.WithContext(ctx))
			res.Header().Set(echo.HeaderXRequestID, id)

			if err = next(c); err != nil {
				c.Error(err)
			}

			stop := time.Now()

			logger.WithContext(ctx).WithFields(map[string]any{
				"request_id":    id,
				"method":        req.Method,
				"uri":           req.RequestURI,
				"status":        res.Status,
				"route":         c.Path(),
				"remote_ip":     c.RealIP(),
				"user_agent":    req.UserAgent(),
				"response_time": stop.Sub(start),
				"response_size": strconv.FormatInt(res.Size, 10),
			}).Info("request")

			return nil
		}
	}
}
