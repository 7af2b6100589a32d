package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rovshanmuradov/solana-swapkit/internal/dex/model"
)

// StatusFor maps an error kind to the HTTP status it is rendered with.
func StatusFor(err error) int {
	switch model.KindOf(err) {
	case model.KindInvalidInput:
		return http.StatusBadRequest
	case model.KindAccountNotFound:
		return http.StatusNotFound
	case model.KindDecode, model.KindQuoteUnavailable:
		return http.StatusUnprocessableEntity
	case model.KindLedger, model.KindSendFailure:
		return http.StatusBadGateway
	}
	if errors.Is(err, model.ErrPoolNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// JSONErrorHandler renders every error, including echo's own, as ErrorResponse
func JSONErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, ErrorResponse{
				Error: http.StatusText(he.Code),
				Code:  he.Code,
			})
			return
		}

		_ = c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error",
			Code:  http.StatusInternalServerError,
		})
	}
}

func renderError(c echo.Context, err error) error {
	code := StatusFor(err)
	resp := ErrorResponse{Error: err.Error(), Code: code, Logs: model.LogsOf(err)}
	if kind := model.KindOf(err); kind != model.KindUnknown {
		resp.Kind = kind.String()
	}
	return c.JSON(code, resp)
}
