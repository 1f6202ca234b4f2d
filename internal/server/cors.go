package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/reasoning-relay/internal/conf"
)

const wildcard = "*"

var allMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodHead, http.MethodOptions,
}

// CORS 跨域中间件
func CORS(cfg conf.CORSConfig) gin.HandlerFunc {
	allowAnyOrigin := contains(cfg.AllowOrigins, wildcard)
	origins := make(map[string]bool, len(cfg.AllowOrigins))
	for _, o := range cfg.AllowOrigins {
		origins[o] = true
	}

	methods := strings.Join(cfg.AllowMethods, ", ")
	if contains(cfg.AllowMethods, wildcard) {
		methods = strings.Join(allMethods, ", ")
	}
	allowAnyHeader := contains(cfg.AllowHeaders, wildcard)
	headers := strings.Join(cfg.AllowHeaders, ", ")
	exposed := strings.Join(cfg.ExposeHeaders, ", ")
	maxAge := ""
	if cfg.MaxAge > 0 {
		maxAge = strconv.Itoa(int(cfg.MaxAge.Seconds()))
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		preflight := c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != ""

		if origin == "" {
			c.Next()
			return
		}

		if !allowAnyOrigin && !origins[origin] {
			if preflight {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
			return
		}

		// Credentials cannot be combined with a literal "*", so the origin is echoed.
		if allowAnyOrigin && !cfg.AllowCredentials {
			c.Header("Access-Control-Allow-Origin", wildcard)
		} else {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		if cfg.AllowCredentials {
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		if exposed != "" {
			c.Header("Access-Control-Expose-Headers", exposed)
		}

		if !preflight {
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Methods", methods)
		if allowAnyHeader {
			if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
				c.Header("Access-Control-Allow-Headers", requested)
			}
		} else if headers != "" {
			c.Header("Access-Control-Allow-Headers", headers)
		}
		if maxAge != "" {
			c.Header("Access-Control-Max-Age", maxAge)
		}
		c.AbortWithStatus(http.StatusNoContent)
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
