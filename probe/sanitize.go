package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"github.com/nodepulse/nodepulse/types"
)

// SanitizeError maps a raw failure onto a small set of stable, display-safe
// categories. Internal stack and connection detail never reach the display
// layer.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	var httpErr *types.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.Code {
		case fiber.StatusMethodNotAllowed:
			return "HTTP 405 (endpoint may not accept POST)"
		case fiber.StatusNotFound:
			return "not found"
		default:
			return fmt.Sprintf("HTTP %d", httpErr.Code)
		}
	}

	if isTimeout(err) {
		return "timeout"
	}
	if isNetworkError(err) {
		return "network error"
	}

	var stdErr *types.StandardError
	if errors.As(err, &stdErr) {
		switch stdErr.Type {
		case types.ErrTypeValidation:
			return "unexpected response"
		case types.ErrTypeNotFound:
			return "not found"
		case types.ErrTypeTimeout:
			return "timeout"
		case types.ErrTypeNetwork:
			return "network error"
		}
	}

	return "request failed"
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}

func isNetworkError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection") || strings.Contains(msg, "no such host")
}
